package tensor

import (
	"math"
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	s := Shape{3, 224, 224}
	if got := s.NumElements(); got != 3*224*224 {
		t.Errorf("NumElements: expected %d, got %d", 3*224*224, got)
	}
	if got := (Shape{}).NumElements(); got != 1 {
		t.Errorf("empty shape NumElements: expected 1, got %d", got)
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("zero dimension accepted")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
}

func TestShapeEqual(t *testing.T) {
	if !(Shape{2, 3}).Equal(Shape{2, 3}) {
		t.Error("equal shapes reported unequal")
	}
	if (Shape{2, 3}).Equal(Shape{3, 2}) {
		t.Error("different shapes reported equal")
	}
	if (Shape{2, 3}).Equal(Shape{2, 3, 1}) {
		t.Error("shapes of different rank reported equal")
	}
}

func TestFromSlice(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	tn, err := FromSlice(data, Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if !tn.Shape().Equal(Shape{2, 3}) {
		t.Errorf("shape: expected [2 3], got %v", tn.Shape())
	}

	if _, err := FromSlice(data, Shape{2, 2}); err == nil {
		t.Error("length mismatch accepted")
	}
	if _, err := FromSlice(nil, Shape{0}); err == nil {
		t.Error("invalid shape accepted")
	}
}

func TestReshapeSharesData(t *testing.T) {
	tn := New(Shape{2, 3})
	r, err := tn.Reshape(Shape{6})
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	r.Data()[0] = 42
	if tn.Data()[0] != 42 {
		t.Error("reshape does not share backing data")
	}

	if _, err := tn.Reshape(Shape{5}); err == nil {
		t.Error("element-count mismatch accepted")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tn, _ := FromSlice([]float32{1, 2, 3}, Shape{3})
	c := tn.Clone()
	c.Data()[0] = 99
	if tn.Data()[0] != 1 {
		t.Error("clone shares backing data with original")
	}
}

func TestMinMaxMeanStd(t *testing.T) {
	tn, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{4})

	minVal, maxVal := tn.MinMax()
	if minVal != 1 || maxVal != 4 {
		t.Errorf("MinMax: expected (1, 4), got (%v, %v)", minVal, maxVal)
	}
	if mean := tn.Mean(); mean != 2.5 {
		t.Errorf("Mean: expected 2.5, got %v", mean)
	}
	// Population std of {1,2,3,4} is sqrt(1.25).
	if std := tn.Std(); math.Abs(std-math.Sqrt(1.25)) > 1e-9 {
		t.Errorf("Std: expected %v, got %v", math.Sqrt(1.25), std)
	}
}
