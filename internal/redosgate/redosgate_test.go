package redosgate

import "testing"

func TestCompileRejectsNestedQuantifier(t *testing.T) {
	cases := []string{"(a+)+", "(a*)*", "(a+)*", "(.*)+"}
	for _, c := range cases {
		if _, err := Compile(c, Options{CaseSensitive: true}); err == nil {
			t.Errorf("expected %q to be rejected as unsafe", c)
		}
	}
}

func TestCompileAcceptsOrdinaryPattern(t *testing.T) {
	re, err := Compile(`foo\d+bar`, Options{CaseSensitive: true})
	if err != nil {
		t.Fatalf("expected ordinary pattern to compile, got %v", err)
	}
	if !re.MatchString("foo123bar") {
		t.Fatal("expected compiled pattern to match")
	}
}

func TestCompileRejectsHugeBoundedRepeat(t *testing.T) {
	if _, err := Compile(`a{1,100000}`, Options{CaseSensitive: true}); err == nil {
		t.Fatal("expected an absurd bounded repeat to be rejected")
	}
}

func TestCompileLiteralEscapesMetacharacters(t *testing.T) {
	re, err := Compile(`a.b*c`, Options{IsLiteral: true, CaseSensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if re.MatchString("aXbYYc") {
		t.Fatal("expected literal search to not treat . and * as metacharacters")
	}
	if !re.MatchString("a.b*c") {
		t.Fatal("expected literal search to match the exact literal string")
	}
}

func TestCompileWholeWord(t *testing.T) {
	re, err := Compile("cat", Options{WholeWord: true, CaseSensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if re.MatchString("concatenate") {
		t.Fatal("expected wholeWord to not match a substring inside a longer word")
	}
	if !re.MatchString("the cat sat") {
		t.Fatal("expected wholeWord to match the word on its own")
	}
}

func TestCompileCaseInsensitiveIsCompileFlag(t *testing.T) {
	re, err := Compile("Cat", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !re.MatchString("cat") {
		t.Fatal("expected case-insensitive compile flag to match lowercase")
	}
}

func TestCompileInvalidSyntaxSurfacesCompilerMessage(t *testing.T) {
	_, err := Compile("(unclosed", Options{CaseSensitive: true})
	if err == nil {
		t.Fatal("expected invalid regex syntax to fail")
	}
}
