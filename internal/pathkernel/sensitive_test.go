package pathkernel

import "testing"

func TestSensitivePolicyDeniesFixedGlobs(t *testing.T) {
	p := NewSensitivePolicy(nil, nil)
	cases := []string{
		"/home/user/project/.env",
		"/home/user/.ssh/id_rsa",
		"/home/user/.aws/credentials",
		"/home/user/project/mysecretfile.txt",
		"/home/user/project/cert.pem",
	}
	for _, c := range cases {
		if !p.IsSensitive(c) {
			t.Errorf("expected %q to be classified sensitive", c)
		}
	}
}

func TestSensitivePolicyAllowOverridesDeny(t *testing.T) {
	p := NewSensitivePolicy(nil, []string{"**/.env.example"})
	if p.IsSensitive("/home/user/project/.env.example") {
		t.Fatal("expected allowlisted path to override denylist")
	}
	if !p.IsSensitive("/home/user/project/.env") {
		t.Fatal("expected non-allowlisted sensitive path to remain denied")
	}
}

func TestSensitivePolicyOrdinaryFileNotSensitive(t *testing.T) {
	p := NewSensitivePolicy(nil, nil)
	if p.IsSensitive("/home/user/project/main.go") {
		t.Fatal("expected ordinary source file to not be classified sensitive")
	}
}

func TestSplitEnvList(t *testing.T) {
	got := SplitEnvList(" a, b ,,c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
