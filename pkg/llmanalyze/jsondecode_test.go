package llmanalyze

import "testing"

type decodeTarget struct {
	Name string `json:"name"`
	ARR  float64 `json:"arr"`
}

func TestSmartDecodePlainJSON(t *testing.T) {
	var out decodeTarget
	if err := smartDecode(`{"name":"Acme","arr":1000000}`, &out); err != nil {
		t.Fatalf("smartDecode failed: %v", err)
	}
	if out.Name != "Acme" || out.ARR != 1000000 {
		t.Errorf("out = %+v", out)
	}
}

func TestSmartDecodeStripsMarkdownFence(t *testing.T) {
	var out decodeTarget
	input := "```json\n{\"name\":\"Acme\",\"arr\":500}\n```"
	if err := smartDecode(input, &out); err != nil {
		t.Fatalf("smartDecode failed: %v", err)
	}
	if out.Name != "Acme" {
		t.Errorf("out = %+v", out)
	}
}

func TestSmartDecodeRepairsTrailingComma(t *testing.T) {
	var out decodeTarget
	input := `{"name":"Acme","arr":500,}`
	if err := smartDecode(input, &out); err != nil {
		t.Fatalf("smartDecode failed on trailing comma: %v", err)
	}
	if out.Name != "Acme" {
		t.Errorf("out = %+v", out)
	}
}

func TestSmartDecodeFallsBackToHjson(t *testing.T) {
	var out decodeTarget
	input := "{\n  name: 'Acme'\n  arr: 500\n}"
	if err := smartDecode(input, &out); err != nil {
		t.Fatalf("smartDecode failed to fall back to hjson: %v", err)
	}
	if out.Name != "Acme" || out.ARR != 500 {
		t.Errorf("out = %+v", out)
	}
}

func TestSmartDecodeEmptyInputFails(t *testing.T) {
	var out decodeTarget
	if err := smartDecode("", &out); err == nil {
		t.Error("expected an error for empty input")
	}
}
