package assets

import (
	"image/color"
	"strings"
	"testing"
)

func TestLoadDefaultSheet(t *testing.T) {
	sheet, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	mid := sheet.BirdMid.Bounds()
	if sheet.BirdUp.Bounds() != mid || sheet.BirdDown.Bounds() != mid {
		t.Error("all animation frames should share one size")
	}
	if sheet.Pipe.Bounds().Dx() < 3 {
		t.Errorf("pipe is too narrow: %v", sheet.Pipe.Bounds())
	}
	if sheet.Ground.Bounds().Empty() || sheet.Background.Bounds().Empty() {
		t.Error("background and ground must not be empty")
	}

	// Transparent corners stay transparent
	if _, _, _, a := sheet.BirdMid.At(0, 0).RGBA(); a != 0 {
		t.Error("'.' should decode to a transparent pixel")
	}
}

const minimalSheet = `
palette:
  r: "#ff0000"
sprites:
  background: ["r"]
  ground: ["r"]
  pipe: ["rr", ".r"]
  bird_up: ["r"]
  bird_mid: ["r"]
  bird_down: ["r"]
`

func TestParseMinimalSheet(t *testing.T) {
	sheet, err := Parse([]byte(minimalSheet))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if got := sheet.Pipe.At(1, 1); got != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Errorf("pipe (1,1) = %v, expected opaque red", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "missing sprite",
			data:    strings.Replace(minimalSheet, `  bird_down: ["r"]`, "", 1),
			wantErr: `missing sprite "bird_down"`,
		},
		{
			name:    "ragged rows",
			data:    minimalSheet + "  extra: [\"rr\", \"r\"]\n",
			wantErr: "row 1 has width 1",
		},
		{
			name:    "unknown key",
			data:    strings.Replace(minimalSheet, `ground: ["r"]`, `ground: ["x"]`, 1),
			wantErr: "unknown palette key",
		},
		{
			name:    "bad color",
			data:    strings.Replace(minimalSheet, `"#ff0000"`, `"#ff00"`, 1),
			wantErr: "want #rrggbb",
		},
		{
			name:    "invalid yaml",
			data:    "palette: [",
			wantErr: "yaml unmarshal",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should contain %q", err, tc.wantErr)
			}
		})
	}
}
