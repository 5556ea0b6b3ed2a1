//go:build !js

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"hackasm/pkg/asm"
	"hackasm/pkg/cpu"
	"hackasm/pkg/utils"
)

// maxProgram stores max(R0, R1) in R2.
const maxProgram = `// Max.asm
@R0
D=M
@R1
D=D-M
@FIRST
D;JGT
@R1
D=M
@SECOND
0;JMP
(FIRST)
@R0
D=M
(SECOND)
@R2
M=D
(END)
@END
0;JMP
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAssembleFiles(t *testing.T) {
	dir := t.TempDir()
	max := writeFile(t, dir, "Max.asm", maxProgram)
	add := writeFile(t, dir, "Add.asm", "@2\nD=A\n@3\nD=D+A\n@0\nM=D\n")

	if err := assembleFiles([]string{max, add}, "", 2); err != nil {
		t.Fatalf("assembleFiles: %v", err)
	}

	got, err := utils.ReadLines(filepath.Join(dir, "Add.hack"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"0000000000000010",
		"1110110000010000",
		"0000000000000011",
		"1110000010010000",
		"0000000000000000",
		"1110001100001000",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Add.hack =\n%s\nwant\n%s", spew.Sdump(got), spew.Sdump(want))
	}

	lines, err := utils.ReadLines(filepath.Join(dir, "Max.hack"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 16 {
		t.Errorf("Max.hack has %d lines; want 16", len(lines))
	}
}

func TestAssembleFilesReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "Good.asm", "@1\n")
	bad := writeFile(t, dir, "Bad.asm", "@1\nD=Q\n")

	err := assembleFiles([]string{good, bad}, "", 1)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "1 of 2 files") {
		t.Errorf("error = %q", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Good.hack")); err != nil {
		t.Errorf("the good file should still be assembled: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Bad.hack")); !os.IsNotExist(err) {
		t.Error("no output should be written for a failing file")
	}
}

func TestAssembleFileKeepsTypedError(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "Bad.asm", "(X)\n(X)\n")

	_, err := assembleFile(bad, filepath.Join(dir, "Bad.hack"))
	var asmErr *asm.Error
	if !errors.As(err, &asmErr) {
		t.Fatalf("expected *asm.Error in chain, got %T: %v", err, err)
	}
	if asmErr.Kind != asm.DuplicateLabel || asmErr.Line != 2 {
		t.Errorf("got %v at line %d", asmErr.Kind, asmErr.Line)
	}
	if !strings.HasPrefix(err.Error(), bad+": duplicate label") {
		t.Errorf("error = %q", err)
	}
}

func TestRunProgram(t *testing.T) {
	dir := t.TempDir()
	max := writeFile(t, dir, "Max.asm", maxProgram)

	tests := []struct {
		r0, r1, want string
	}{
		{"5", "9", "RAM[2] R2 = 9"},
		{"12", "-4", "RAM[2] R2 = 12"},
		{"0x10", "3", "RAM[2] R2 = 16"},
	}
	for _, tc := range tests {
		var out bytes.Buffer
		opts := runOptions{
			cycles: 1000,
			set:    []string{"R0=" + tc.r0, "R1=" + tc.r1},
			ram:    []string{"R2"},
		}
		if err := runProgram(&out, max, opts); err != nil {
			t.Fatalf("runProgram: %v", err)
		}
		if !strings.Contains(out.String(), "halted=true") {
			t.Errorf("program did not halt:\n%s", out.String())
		}
		if !strings.Contains(out.String(), tc.want) {
			t.Errorf("R0=%s R1=%s: output\n%s\nwant %q", tc.r0, tc.r1, out.String(), tc.want)
		}
	}
}

func TestRunHackSnapshotAndResume(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "Count.asm", "@count\nM=M+1\n@0\n0;JMP\n")
	if err := assembleFiles([]string{src}, "", 1); err != nil {
		t.Fatal(err)
	}
	hack := filepath.Join(dir, "Count.hack")
	snap := filepath.Join(dir, "snap.zip")
	screen := filepath.Join(dir, "screen.png")

	var out bytes.Buffer
	if err := runProgram(&out, hack, runOptions{cycles: 40, snapshot: snap, png: screen, scale: 2, ram: []string{"16"}}); err != nil {
		t.Fatalf("runProgram: %v", err)
	}
	if !strings.Contains(out.String(), "halted=false cycles=40") {
		t.Errorf("first run output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "RAM[16] 16 = 10") {
		t.Errorf("first run output:\n%s", out.String())
	}
	if _, err := os.Stat(screen); err != nil {
		t.Errorf("screenshot not written: %v", err)
	}

	out.Reset()
	if err := runProgram(&out, "", runOptions{cycles: 80, resume: snap, ram: []string{"16"}}); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !strings.Contains(out.String(), "RAM[16] 16 = 20") {
		t.Errorf("resumed run output:\n%s", out.String())
	}
}

func TestRunProgramErrors(t *testing.T) {
	dir := t.TempDir()
	bin := writeFile(t, dir, "prog.bin", "")
	hack := writeFile(t, dir, "prog.hack", "0101\n")

	tests := []struct {
		name string
		path string
		opts runOptions
	}{
		{"Nothing To Run", "", runOptions{}},
		{"Unknown Extension", bin, runOptions{}},
		{"Bad Machine Code", hack, runOptions{}},
		{"File And Resume", hack, runOptions{resume: "x.zip"}},
		{"Bad Assignment", writeFile(t, dir, "ok.hack", ""), runOptions{set: []string{"R0"}}},
		{"Unknown Symbol", writeFile(t, dir, "ok2.hack", ""), runOptions{ram: []string{"nosuch"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := runProgram(&out, tc.path, tc.opts); err == nil {
				t.Errorf("expected error, output:\n%s", out.String())
			}
		})
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in    string
		addr  uint16
		value uint16
		ok    bool
	}{
		{"R0=5", 0, 5, true},
		{"SCREEN=-1", cpu.ScreenBase, 0xFFFF, true},
		{"100 = 0x7fff", 100, 0x7FFF, true},
		{"R1=65535", 1, 0xFFFF, true},
		{"R1=65536", 0, 0, false},
		{"R1=-32769", 0, 0, false},
		{"R1=abc", 0, 0, false},
		{"=3", 0, 0, false},
	}
	for _, tc := range tests {
		addr, value, err := parseAssignment(tc.in, nil)
		if (err == nil) != tc.ok {
			t.Errorf("parseAssignment(%q) error = %v; want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && (addr != tc.addr || value != tc.value) {
			t.Errorf("parseAssignment(%q) = %d, %d; want %d, %d", tc.in, addr, value, tc.addr, tc.value)
		}
	}
}

func TestResolveAddressUsesProgramSymbols(t *testing.T) {
	a := asm.NewAssembler()
	if _, _, err := a.Assemble("@sum\n@i\n"); err != nil {
		t.Fatal(err)
	}
	addr, err := resolveAddress("i", a.Symbols())
	if err != nil || addr != 17 {
		t.Errorf("resolveAddress(i) = %d, %v; want 17", addr, err)
	}
	if _, err := resolveAddress("i", nil); err == nil {
		t.Error("variables are unknown without a program")
	}
	if addr, err := resolveAddress("KBD", nil); err != nil || addr != cpu.KBD {
		t.Errorf("resolveAddress(KBD) = %d, %v", addr, err)
	}
}

func TestDumpFile(t *testing.T) {
	dir := t.TempDir()
	max := writeFile(t, dir, "Max.asm", maxProgram)

	var out bytes.Buffer
	if err := dumpFile(&out, max, false); err != nil {
		t.Fatalf("dumpFile: %v", err)
	}
	got := out.String()
	for _, want := range []string{"; instructions", "; symbols", "FIRST", "SECOND", "   15  1110101010000111  ; line 20"} {
		if !strings.Contains(got, want) {
			t.Errorf("dump output missing %q:\n%s", want, got)
		}
	}
}
