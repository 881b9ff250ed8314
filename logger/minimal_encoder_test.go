package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The encoder must never silently drop a field.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "generate",
		Message:    "wrote builders",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldPackage, "example.com/shop"), "package=example.com/shop"},
		{zap.String(FieldFile, "shop/ctorgen_builders.go"), "file=shop/ctorgen_builders.go"},
		{zap.Int(FieldBuilders, 3), "builders=3"},
		{zap.Int64(FieldDurationMS, 42), "duration_ms=42"},
		{zap.Bool("auto_detect", true), "auto_detect=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Strings("factories", []string{"NewOrder", "NewCart"}), "factories=[NewOrder,NewCart]"},
		{zap.Error(nil), ""},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
	}

	var allFields []zapcore.Field
	for _, tf := range testFields {
		allFields = append(allFields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, allFields)
	if err != nil {
		t.Fatalf("Failed to encode entry: %v", err)
	}

	cleanOutput := stripANSI(buf.String())
	for _, tf := range testFields {
		if tf.mustFind != "" && !strings.Contains(cleanOutput, tf.mustFind) {
			t.Errorf("field was discarded from log output: %s\noutput: %s", tf.mustFind, cleanOutput)
		}
	}
}

func TestMinimalEncoderLevelAndName(t *testing.T) {
	encoder := newMinimalEncoder()

	buf, err := encoder.EncodeEntry(zapcore.Entry{
		Level:      zapcore.WarnLevel,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "generate.watch",
		Message:    "watcher error",
	}, nil)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	got := stripANSI(buf.String())
	want := "13:04:35  WARN  g.watch  watcher error\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMinimalEncoderInfoHasNoLevel(t *testing.T) {
	encoder := newMinimalEncoder()

	buf, err := encoder.EncodeEntry(zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		Message: "up to date",
	}, []zapcore.Field{zap.Int(FieldBuilders, 0)})
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	got := stripANSI(buf.String())
	if got != "09:00:00  up to date  builders=0\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestMinimalEncoderComplexTypes(t *testing.T) {
	encoder := newMinimalEncoder()

	fields := []zapcore.Field{
		zap.Duration("elapsed", 5*time.Second),
		zap.Uint64("bytes_written", 5000000000),
		zap.ByteString("header", []byte("// Code generated")),
		zap.Binary("digest", []byte{0x01, 0x02, 0x03}),
	}

	buf, err := encoder.EncodeEntry(zapcore.Entry{Time: time.Now(), Message: "m"}, fields)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	cleanOutput := stripANSI(buf.String())
	for _, key := range []string{"elapsed=", "bytes_written=5000000000", "header=", "digest="} {
		if !strings.Contains(cleanOutput, key) {
			t.Errorf("missing %q in %s", key, cleanOutput)
		}
	}
}

func TestAbbreviateName(t *testing.T) {
	tests := map[string]string{
		"generate":       "generate",
		"generate.watch": "g.watch",
		"a.b.c":          "a.b.c",
	}
	for in, want := range tests {
		if got := abbreviateName(in); got != want {
			t.Errorf("abbreviateName(%q) = %q, want %q", in, got, want)
		}
	}
}
