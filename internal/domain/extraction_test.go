package domain

import "testing"

func TestDefaultExtractionOptions(t *testing.T) {
	opts := DefaultExtractionOptions()
	if opts.Language != "eng" {
		t.Fatalf("expected default language eng, got %s", opts.Language)
	}
	if opts.DPI != 100 {
		t.Fatalf("expected default dpi 100, got %d", opts.DPI)
	}
	if opts.EngineMode != EngineModeLSTM {
		t.Fatalf("expected LSTM engine mode, got %d", opts.EngineMode)
	}
	if opts.SegmentationMode != PSMSingleBlock {
		t.Fatalf("expected single-block segmentation, got %d", opts.SegmentationMode)
	}
	if opts.PageLimit != 0 {
		t.Fatalf("expected no page limit, got %d", opts.PageLimit)
	}
	if !opts.Parallel {
		t.Fatal("expected parallel processing by default")
	}
	if err := opts.Validate(); err != nil {
		t.Fatalf("defaults must validate, got %v", err)
	}
}

func TestExtractionOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExtractionOptions)
		wantErr bool
	}{
		{"defaults", func(o *ExtractionOptions) {}, false},
		{"composite language", func(o *ExtractionOptions) { o.Language = "eng+ind" }, false},
		{"empty language", func(o *ExtractionOptions) { o.Language = "" }, true},
		{"zero dpi", func(o *ExtractionOptions) { o.DPI = 0 }, true},
		{"negative dpi", func(o *ExtractionOptions) { o.DPI = -100 }, true},
		{"engine mode too high", func(o *ExtractionOptions) { o.EngineMode = 4 }, true},
		{"engine mode negative", func(o *ExtractionOptions) { o.EngineMode = -1 }, true},
		{"segmentation mode too high", func(o *ExtractionOptions) { o.SegmentationMode = 14 }, true},
		{"negative page limit", func(o *ExtractionOptions) { o.PageLimit = -1 }, true},
		{"explicit page limit", func(o *ExtractionOptions) { o.PageLimit = 3 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultExtractionOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	if !(FileSource{}).IsEmpty() {
		t.Fatal("zero value must be empty")
	}
	inline := FileSource{Data: []byte("%PDF"), Filename: "a.pdf"}
	if !inline.IsInline() || inline.IsEmpty() {
		t.Fatal("inline source misclassified")
	}
	ref := FileSource{ObjectKey: "abc123"}
	if ref.IsInline() || ref.IsEmpty() {
		t.Fatal("object reference misclassified")
	}
	byID := FileSource{ContractID: "c-42"}
	if byID.IsInline() || byID.IsEmpty() {
		t.Fatal("contract reference misclassified")
	}
}
