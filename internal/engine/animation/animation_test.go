package animation

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/islet/internal/engine/transform"
)

func run(a Animation, t transform.Transform, n int) transform.Transform {
	for i := 0; i < n; i++ {
		t = a.Apply(t)
	}
	return t
}

func TestDeterministic(t *testing.T) {
	build := func() Animation {
		return &Combo{Steps: []Animation{
			&Spin{Period: 3, Axis: mgl32.Vec3{1, 0, 0}},
			&Bounce{Period: 0.5, Offset: mgl32.Vec3{0, 1, 0}},
			&Squash{Period: 0.7, Direction: mgl32.Vec3{0.2, 0, 0}},
		}}
	}
	a := run(build(), transform.New(), 137)
	b := run(build(), transform.New(), 137)
	if a != b {
		t.Errorf("runs differ: %+v vs %+v", a, b)
	}
}

func TestSpinFullTurn(t *testing.T) {
	for _, start := range []float32{0, 30} {
		spin := &Spin{Period: 2, Axis: mgl32.Vec3{0, 0, 1}}
		tr := transform.New()
		tr.Angle = start

		tr = run(spin, tr, 2*60)
		if tr.Axis != (mgl32.Vec3{0, 0, 1}) {
			t.Errorf("axis = %v", tr.Axis)
		}
		if d := tr.Angle - start - 360; d > 1e-2 || d < -1e-2 {
			t.Errorf("start %v: angle = %v, want %v", start, tr.Angle, start+360)
		}
	}
}

func TestBounceStartsAtCenter(t *testing.T) {
	b := &Bounce{Period: 1, Center: mgl32.Vec3{1, 2, 3}, Offset: mgl32.Vec3{0, 5, 0}}
	in := transform.New()
	in.Position = mgl32.Vec3{9, 9, 9}

	out := b.Apply(in)
	if out.Position != b.Center {
		t.Errorf("position = %v, want center %v", out.Position, b.Center)
	}
	if in.Position != (mgl32.Vec3{9, 9, 9}) {
		t.Error("input transform mutated")
	}
	if out = b.Apply(out); out.Position == b.Center {
		t.Error("second call did not advance")
	}
}

func TestSquashStartsAtHalf(t *testing.T) {
	s := &Squash{Period: 1, Direction: mgl32.Vec3{0.4, 0, -0.2}}
	out := s.Apply(transform.New())
	want := mgl32.Vec3{1.2, 1, 0.9}
	if !out.Scale.ApproxEqual(want) {
		t.Errorf("scale = %v, want %v", out.Scale, want)
	}
}

func TestComboOrder(t *testing.T) {
	spinA := &Spin{Period: 1, Axis: mgl32.Vec3{1, 0, 0}}
	spinB := &Spin{Period: 1, Axis: mgl32.Vec3{0, 0, 1}}

	ab := (&Combo{Steps: []Animation{spinA, spinB}}).Apply(transform.New())
	ba := (&Combo{Steps: []Animation{spinB, spinA}}).Apply(transform.New())

	if ab.Axis != spinB.Axis || ba.Axis != spinA.Axis {
		t.Errorf("last step should own the axis: ab=%v ba=%v", ab.Axis, ba.Axis)
	}

	// Combo of [A, B] equals B(A(T)).
	a := &Bounce{Period: 1, Center: mgl32.Vec3{0, 1, 0}}
	b := &Squash{Period: 1, Direction: mgl32.Vec3{1, 1, 1}}
	combo := &Combo{}
	combo.Add(&Bounce{Period: 1, Center: mgl32.Vec3{0, 1, 0}})
	combo.Add(&Squash{Period: 1, Direction: mgl32.Vec3{1, 1, 1}})
	if got, want := combo.Apply(transform.New()), b.Apply(a.Apply(transform.New())); got != want {
		t.Errorf("combo = %+v, want %+v", got, want)
	}
}

func TestSpecBuild(t *testing.T) {
	spec := Spec{Type: "combo", Steps: []Spec{
		{Type: "spin", Period: 4, Axis: [3]float32{0, 1, 0}},
		{Type: "bounce", Period: 1, Offset: [3]float32{0, 0.2, 0}},
		{Type: "squash", Period: 1, Direction: [3]float32{0, 0.3, 0}},
	}}
	a, err := spec.Build()
	if err != nil {
		t.Fatal(err)
	}
	combo, ok := a.(*Combo)
	if !ok || len(combo.Steps) != 3 {
		t.Fatalf("built %T", a)
	}
	if _, ok := combo.Steps[1].(*Bounce); !ok {
		t.Errorf("step 1 is %T", combo.Steps[1])
	}
}

func TestSpecErrors(t *testing.T) {
	if _, err := (Spec{Type: "wobble"}).Build(); !errors.Is(err, ErrUnknownAnimation) {
		t.Errorf("err = %v, want ErrUnknownAnimation", err)
	}
	if _, err := (Spec{Type: "combo", Steps: []Spec{{Type: "nope"}}}).Build(); !errors.Is(err, ErrUnknownAnimation) {
		t.Errorf("nested err = %v", err)
	}
	if _, err := (Spec{Type: "spin"}).Build(); err == nil {
		t.Error("zero period accepted")
	}
}
