package object

import (
	"testing"
	"time"

	"github.com/tomz197/meteordash/internal/draw"
	"github.com/tomz197/meteordash/internal/physics"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newContext() DrawContext {
	return DrawContext{Canvas: draw.NewCanvas(100, 50, 100, 100), Now: now}
}

// inkOutside counts colored pixels outside box, with one pixel of slack for rounding.
func inkOutside(c *draw.Canvas, box physics.Rect) int {
	n := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			in := float64(x) >= box.Left-1 && float64(x) <= box.Right+1 &&
				float64(y) >= box.Top-1 && float64(y) <= box.Bottom+1
			if !in && c.Pixel(x, y) != draw.ColorNone {
				n++
			}
		}
	}
	return n
}

func TestMeteorShapeIsStable(t *testing.T) {
	a := NewMeteor(3, 45, now)
	b := NewMeteor(3, 45, now)
	if len(a.Vertices) != len(b.Vertices) || len(a.Vertices) < 8 || len(a.Vertices) > 12 {
		t.Fatalf("vertex counts %d and %d", len(a.Vertices), len(b.Vertices))
	}
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Fatalf("vertex %d differs between builds", i)
		}
		if a.Vertices[i] < 0.7 || a.Vertices[i] > 1.3 {
			t.Errorf("vertex %d factor %v out of range", i, a.Vertices[i])
		}
	}
}

func TestSpritesStayInsideTheirBox(t *testing.T) {
	box := physics.RectAt(20, 20, 40, 40)
	for name, s := range map[string]Sprite{
		"meteor": NewMeteor(1, 0, now.Add(-time.Second)),
		"star":   Star{},
		"rare":   Star{Rare: true},
		"rocket": Rocket{Rotation: rocketBaseAngle, Flame: true},
	} {
		ctx := newContext()
		s.Draw(ctx, box)
		if ctx.Canvas.Pixel(40, 40) == draw.ColorNone {
			t.Errorf("%s: center of the box left empty", name)
		}
		if n := inkOutside(ctx.Canvas, box); n > 0 {
			t.Errorf("%s: %d pixels drawn outside the box", name, n)
		}
	}
}

func TestCollectedStarIsHidden(t *testing.T) {
	ctx := newContext()
	Star{Collected: true}.Draw(ctx, physics.RectAt(20, 20, 40, 40))
	if ctx.Canvas.Pixel(40, 40) != draw.ColorNone {
		t.Error("collected star drawn")
	}
}

func TestUprightRocketHull(t *testing.T) {
	ctx := newContext()
	Rocket{Rotation: rocketBaseAngle}.Draw(ctx, physics.RectAt(40, 20, 20, 60))
	if got := ctx.Canvas.Pixel(50, 50); got != draw.ColorWhite {
		t.Errorf("hull center = %v, want white", got)
	}
	if got := ctx.Canvas.Pixel(50, 79); got != draw.ColorNone {
		t.Errorf("flame drawn while disabled: %v", got)
	}
}

func TestShouldRenderBlink(t *testing.T) {
	if !ShouldRenderBlink(0, 10) {
		t.Error("unprotected objects must always render")
	}
	on, off := 0, 0
	for ms := 10; ms < 1500; ms += 10 {
		if ShouldRenderBlink(time.Duration(ms)*time.Millisecond, 10) {
			on++
		} else {
			off++
		}
	}
	if on == 0 || off == 0 {
		t.Errorf("no blinking: %d on, %d off", on, off)
	}
}
