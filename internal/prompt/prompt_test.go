package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVulnerability_SplicesCode(t *testing.T) {
	code := "int main(void) {\n  char buf[8];\n  gets(buf);\n}\n"
	got := Vulnerability(code)

	assert.Contains(t, got, code, "file content should appear verbatim")
	assert.NotContains(t, got, placeholder, "placeholder should be consumed")
	assert.True(t, strings.HasPrefix(got, "Analyze this C/C++ code"), "instruction should lead the prompt")
	assert.Contains(t, got, `"has_vulnerability"`, "response contract should be spelled out")
	assert.Contains(t, got, `"severity"`, "response contract should be spelled out")
}

func TestVulnerability_EmptyCode(t *testing.T) {
	got := Vulnerability("")

	assert.NotContains(t, got, placeholder)
	assert.Contains(t, got, "Respond in JSON format")
}
