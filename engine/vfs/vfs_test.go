package vfs

import (
	"errors"
	"reflect"
	"testing"
)

func testFS(t *testing.T) *FS {
	t.Helper()
	f := New("C")
	if err := f.CreateDir(`C:\FIDO\INBOUND`); err != nil {
		t.Fatal(err)
	}
	if err := f.CreateFile(`C:\FIDO\T-MAIL.CTL`, "; T-Mail\nADDRESS 2:5020/9999\n"); err != nil {
		t.Fatal(err)
	}
	if err := f.CreateFile(`C:\AUTOEXEC.BAT`, "@ECHO OFF\n"); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCdAndPwd(t *testing.T) {
	f := testFS(t)
	if f.Pwd() != `C:\` {
		t.Errorf("Pwd = %q", f.Pwd())
	}
	if err := f.Cd("fido"); err != nil {
		t.Fatal(err)
	}
	if f.Pwd() != `C:\FIDO` {
		t.Errorf("Pwd = %q", f.Pwd())
	}
	if err := f.Cd(`inbound`); err != nil {
		t.Fatal(err)
	}
	if err := f.Cd(`..\..`); err != nil {
		t.Fatal(err)
	}
	if f.Pwd() != `C:\` {
		t.Errorf("Pwd after .. = %q", f.Pwd())
	}

	tests := []struct {
		path string
		want error
	}{
		{`C:\NOPE`, ErrNotFound},
		{`C:\AUTOEXEC.BAT`, ErrNotDir},
	}
	for _, tt := range tests {
		if err := f.Cd(tt.path); !errors.Is(err, tt.want) {
			t.Errorf("Cd(%q) = %v, want %v", tt.path, err, tt.want)
		}
	}
	if err := f.Cd(`D:\`); err == nil {
		t.Error("other drive should fail")
	}
}

func TestLs(t *testing.T) {
	f := testFS(t)
	got, err := f.Ls(`C:\FIDO`)
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{
		{Name: "INBOUND", IsDir: true},
		{Name: "T-MAIL.CTL", Size: len("; T-Mail\nADDRESS 2:5020/9999\n")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ls = %+v", got)
	}
	if _, err := f.Ls(`C:\MISSING`); !errors.Is(err, ErrNotFound) {
		t.Errorf("Ls missing = %v", err)
	}
}

func TestCatAndWrite(t *testing.T) {
	f := testFS(t)
	f.Cd(`C:\FIDO`)

	if _, err := f.Cat("t-mail.ctl"); err != nil {
		t.Fatalf("case-insensitive Cat: %v", err)
	}
	if err := f.WriteFile("t-mail.ctl", "ADDRESS 2:5020/1\n"); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.Cat(`C:\FIDO\T-MAIL.CTL`); got != "ADDRESS 2:5020/1\n" {
		t.Errorf("Cat = %q", got)
	}
	if _, err := f.Cat("INBOUND"); !errors.Is(err, ErrIsDir) {
		t.Errorf("Cat dir = %v", err)
	}
	if err := f.CreateFile("T-MAIL.CTL", ""); !errors.Is(err, ErrExists) {
		t.Errorf("CreateFile existing = %v", err)
	}
	if err := f.WriteFile(`C:\NOWHERE\X.TXT`, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("WriteFile into missing dir = %v", err)
	}
	if err := f.WriteFile("golded.cfg", "USERNAME Sysop\n"); err != nil {
		t.Fatal(err)
	}
	if !f.Exists(`C:\FIDO\GOLDED.CFG`) {
		t.Error("WriteFile did not create file")
	}
	if abs, _ := f.Abs("golded.cfg"); abs != `C:\FIDO\golded.cfg` {
		t.Errorf("Abs = %q", abs)
	}
}

func TestParseKeyValues(t *testing.T) {
	text := "; comment\n\nADDRESS 2:5020/9999\nsysop   Ivan Petrov\r\nINBOUND\tC:\\FIDO\\INBOUND\nADDRESS 2:5020/1\n"
	got := ParseKeyValues(text)
	want := map[string]string{
		"ADDRESS": "2:5020/1",
		"SYSOP":   "Ivan Petrov",
		"INBOUND": `C:\FIDO\INBOUND`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseKeyValues = %v", got)
	}
}

func TestSetKeyValue(t *testing.T) {
	text := "; T-Mail\nADDRESS 2:5020/9999\n"
	got := SetKeyValue(text, "address", "2:5020/1")
	got = SetKeyValue(got, "Sysop", "Ivan")
	want := "; T-Mail\nADDRESS 2:5020/1\nSYSOP Ivan\n"
	if got != want {
		t.Errorf("SetKeyValue = %q, want %q", got, want)
	}
	if got := SetKeyValue("", "A", "1"); got != "A 1\n" {
		t.Errorf("SetKeyValue empty = %q", got)
	}
	if got := FormatKeyValues("hdr", map[string]string{"B": "2", "A": "1"}); got != "; hdr\nA 1\nB 2\n" {
		t.Errorf("FormatKeyValues = %q", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	f := testFS(t)
	if err := f.Cd(`FIDO\INBOUND`); err != nil {
		t.Fatal(err)
	}
	snap := f.Snapshot()
	if want := []string{`C:\FIDO`, `C:\FIDO\INBOUND`}; !reflect.DeepEqual(snap.Dirs, want) {
		t.Errorf("Dirs = %v, want %v", snap.Dirs, want)
	}

	g := New("C")
	g.WriteFile(`C:\JUNK.TXT`, "x")
	if err := g.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if g.Exists(`C:\JUNK.TXT`) {
		t.Error("Restore kept old files")
	}
	text, err := g.Cat(`C:\FIDO\T-MAIL.CTL`)
	if err != nil || text != "; T-Mail\nADDRESS 2:5020/9999\n" {
		t.Errorf("Cat = %q, %v", text, err)
	}
	if g.Pwd() != `C:\FIDO\INBOUND` {
		t.Errorf("Pwd = %q", g.Pwd())
	}
}
