package operand

import "testing"

func TestScalarEquality(t *testing.T) {
	if !Integer(3).Equal(Integer(3)) {
		t.Error("Integer(3) should equal Integer(3)")
	}
	if Integer(3).Equal(Integer(4)) {
		t.Error("Integer(3) should not equal Integer(4)")
	}
	if Integer(3).Equal(Float(3)) {
		t.Error("Integer(3) should not equal Float(3): different kinds")
	}
}

func TestFloatNaNEquality(t *testing.T) {
	nan := Float(mathNaN())
	if nan.Equal(nan) {
		t.Error("NaN should not equal itself, matching Go's native float64 ==")
	}
}

func mathNaN() float64 {
	var zero float64
	return zero / zero
}

func TestStringDelimiterRoundTrip(t *testing.T) {
	s := NewString(`it's fine`, '"')
	want := `"it's fine"`
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringEscapesRememberedDelimiter(t *testing.T) {
	s := NewString(`say "hi"`, '"')
	want := `"say \"hi\""`
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestComputedStringPicksFreeDelimiter(t *testing.T) {
	s := NewComputedString(`contains a " quote`)
	got := s.String()
	if got[0] != '\'' {
		t.Errorf("expected computed string to fall back to ' when \" occurs in payload, got %q", got)
	}
}

func TestRegexComplementIdempotence(t *testing.T) {
	re, err := NewRegex("^as", "", '/', true, true)
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	twice := re.Complemented().Complemented()
	if !twice.Equal(re) {
		t.Errorf("double complement should be idempotent: got %v, want %v", twice, re)
	}
	once := re.Complemented()
	if once.Equal(re) {
		t.Error("single complement should not equal the original")
	}
}

func TestRegexEqualityIgnoresFlagOrder(t *testing.T) {
	a, err := NewRegex("x", "im", '/', true, true)
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	b, err := NewRegex("x", "mi", '/', true, true)
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	if !a.Equal(b) {
		t.Error("regex equality should ignore flag order")
	}
}

func TestCIDRv4Masking(t *testing.T) {
	c, err := NewCIDRv4("10.84.1.1", 16)
	if err != nil {
		t.Fatalf("NewCIDRv4: %v", err)
	}
	if got := c.String(); got != "10.84.0.0/16" {
		t.Errorf("NewCIDRv4 should mask host bits at construction: got %q, want %q", got, "10.84.0.0/16")
	}
}

func TestCIDRv4InvalidPrefix(t *testing.T) {
	for _, prefix := range []int{-1, 33} {
		if _, err := NewCIDRv4("10.0.0.0", prefix); err == nil {
			t.Errorf("NewCIDRv4 with prefix %d should fail", prefix)
		}
	}
}

func TestCIDRv6InvalidPrefix(t *testing.T) {
	for _, prefix := range []int{-1, 129} {
		if _, err := NewCIDRv6("fd84::", prefix); err == nil {
			t.Errorf("NewCIDRv6 with prefix %d should fail", prefix)
		}
	}
}

func TestCIDRv4RejectsIPv6(t *testing.T) {
	if _, err := NewCIDRv4("fd84::1", 64); err == nil {
		t.Error("NewCIDRv4 should reject an IPv6 address")
	}
}

func TestSetHomogeneity(t *testing.T) {
	_, err := NewSet([]HashableElem{Integer(1), Integer(2)})
	if err != nil {
		t.Errorf("homogeneous set should parse: %v", err)
	}

	_, err = NewSet([]HashableElem{Integer(1), Float(1.0)})
	if err == nil {
		t.Fatal("heterogeneous set should fail")
	}
	he, ok := err.(*HeterogeneousError)
	if !ok {
		t.Fatalf("got %T, want *HeterogeneousError", err)
	}
	if he.Index != 1 {
		t.Errorf("HeterogeneousError.Index = %d, want 1 (pointing at the 1.0 element)", he.Index)
	}
}

func TestSetMembership(t *testing.T) {
	set, err := NewSet([]HashableElem{Integer(1), Integer(2), Integer(3)})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if !set.Contains(Integer(2)) {
		t.Error("set should contain 2")
	}
	if set.Contains(Integer(4)) {
		t.Error("set should not contain 4")
	}
}

func TestSetEqualityIgnoresOrder(t *testing.T) {
	a, _ := NewSet([]HashableElem{Integer(1), Integer(2)})
	b, _ := NewSet([]HashableElem{Integer(2), Integer(1)})
	if !a.Equal(b) {
		t.Error("sets with the same elements in different orders should be equal")
	}
}

func TestEnvLookup(t *testing.T) {
	env := Env{"a": KindInteger}
	if k, ok := env.Lookup("a"); !ok || k != KindInteger {
		t.Errorf("Lookup(a) = %v, %v; want Integer, true", k, ok)
	}
	if _, ok := env.Lookup("missing"); ok {
		t.Error("Lookup(missing) should report false")
	}
}
