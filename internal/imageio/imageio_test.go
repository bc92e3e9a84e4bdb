package imageio

import (
	"strings"
	"testing"
)

func TestReadImageParsesHeaderAndBytes(t *testing.T) {
	src := "# comment\n0 4\n1 2 3 4\n"
	img, err := ReadImage(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if img.EntryAddr() != 0 || img.Size() != 4 {
		t.Fatalf("unexpected entry/size: %d/%d", img.EntryAddr(), img.Size())
	}
	b, ok := img.ByteAt(2)
	if !ok || b != 3 {
		t.Fatalf("expected byte 3 at index 2, got %v ok=%v", b, ok)
	}
}

func TestReadImageRejectsSizeMismatch(t *testing.T) {
	src := "0 5\n1 2 3\n"
	if _, err := ReadImage(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for declared-vs-actual size mismatch")
	}
}
