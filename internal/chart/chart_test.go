package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mwiater/perfview/internal/perflog"
)

func load(t *testing.T, files ...perflog.File) *perflog.Collection {
	t.Helper()
	c, err := perflog.Load(context.Background(), files)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return c
}

func capture(rows int, fps float64) perflog.File {
	var b strings.Builder
	b.WriteString("waypoint_index;player_position;player_rotation;fps_measure\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d;%d 2 3;4 5;%g\n", i, i, fps+float64(i%3))
	}
	return perflog.File{Name: fmt.Sprintf("run-%d.csv", rows), Data: []byte(b.String())}
}

func TestLabelsUseLongestWaypointSequence(t *testing.T) {
	c := load(t, capture(100, 50), capture(150, 55), capture(120, 60))
	setup := Build(c, perflog.FPSMeasure, nil)
	if len(setup.Labels) != 150 {
		t.Fatalf("expected 150 labels, got %d", len(setup.Labels))
	}
	if setup.Labels[149] != "149" {
		t.Fatalf("unexpected last label %q", setup.Labels[149])
	}
	if len(setup.Datasets) != 3 {
		t.Fatalf("expected 3 series, got %d", len(setup.Datasets))
	}
	if len(setup.Datasets[0].Data) != 100 {
		t.Fatalf("series keep their own length, got %d", len(setup.Datasets[0].Data))
	}
}

func TestBuildStylesAndLegend(t *testing.T) {
	files := make([]perflog.File, 0, 6)
	for i := 1; i <= 6; i++ {
		files = append(files, capture(i+1, 60))
	}
	c := load(t, files...)
	setup := Build(c, perflog.FPSMeasure, map[string]string{"run-2.csv": "baseline", "run-3.csv": "  "})

	if setup.Datasets[0].Label != "baseline" {
		t.Fatalf("expected legend override, got %q", setup.Datasets[0].Label)
	}
	if setup.Datasets[1].Label != "run-3.csv" {
		t.Fatalf("blank legend must fall back to file name, got %q", setup.Datasets[1].Label)
	}
	if setup.Datasets[5].BorderColor != setup.Datasets[0].BorderColor {
		t.Fatal("palette must cycle every five datasets")
	}
	if setup.Datasets[1].PointStyle != "triangle" {
		t.Fatalf("unexpected point style %q", setup.Datasets[1].PointStyle)
	}
	if setup.ReferenceLine == nil || *setup.ReferenceLine != 60 || setup.StepSize != 5 {
		t.Fatalf("expected FPS reference line, got %+v", setup)
	}
	point := setup.Datasets[0].Points[1]
	if point.Waypoint != "1" || point.Coordinates != "1, 2, 3" || point.Teleport != "tp 1, 2, 3, 4, 5" {
		t.Fatalf("unexpected point info %+v", point)
	}
}

func TestBuildLeavesGapsForNonNumeric(t *testing.T) {
	c := load(t, perflog.File{Name: "gaps.csv", Data: []byte("waypoint_index;VRAM MB\n0;10\n1;bad\n2;\n")})
	setup := Build(c, perflog.VRAM, nil)
	data := setup.Datasets[0].Data
	if data[0] == nil || *data[0] != 10 {
		t.Fatalf("expected first value 10, got %v", data[0])
	}
	if data[1] != nil || data[2] != nil {
		t.Fatal("non-numeric values must be gaps")
	}
	if setup.ReferenceLine != nil {
		t.Fatal("only the FPS chart carries a reference line")
	}
}

func TestRenderPNG(t *testing.T) {
	c := load(t, capture(10, 50), capture(12, 58))
	setup := Build(c, perflog.FPSMeasure, nil)

	var buf bytes.Buffer
	if err := RenderPNG(&buf, setup, RenderOptions{Title: "Nightly", Width: 640, Height: 320}); err != nil {
		t.Fatalf("RenderPNG error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatal("expected PNG signature")
	}
}

func TestRenderPNGNotEnoughPoints(t *testing.T) {
	c := load(t, capture(1, 50))
	setup := Build(c, perflog.FPSMeasure, nil)
	if err := RenderPNG(&bytes.Buffer{}, setup, RenderOptions{}); !errors.Is(err, ErrNotEnoughPoints) {
		t.Fatalf("expected ErrNotEnoughPoints, got %v", err)
	}
}
