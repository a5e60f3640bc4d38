package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"imuslab.com/siteserv/mod/utils"
)

func TestFileExistsAndIsDir(t *testing.T) {
	tmp := t.TempDir()
	filePath := filepath.Join(tmp, "index.html")
	assert.NoError(t, os.WriteFile(filePath, []byte("hello"), 0775))

	assert.True(t, utils.FileExists(filePath))
	assert.True(t, utils.FileExists(tmp))
	assert.False(t, utils.FileExists(filepath.Join(tmp, "not-exists.html")))

	assert.True(t, utils.IsDir(tmp))
	assert.False(t, utils.IsDir(filePath))
	assert.False(t, utils.IsDir(filepath.Join(tmp, "not-exists")))
}

func TestStringInArray(t *testing.T) {
	arr := []string{".git", "node_modules", "dist"}

	assert.True(t, utils.StringInArray(arr, "dist"))
	assert.False(t, utils.StringInArray(arr, "Dist"))
	assert.False(t, utils.StringInArray(arr, "src"))

	assert.True(t, utils.StringInArrayIgnoreCase(arr, "Dist"))
	assert.True(t, utils.StringInArrayIgnoreCase(arr, "NODE_MODULES"))
	assert.False(t, utils.StringInArrayIgnoreCase(arr, "src"))
}

func TestStringToInt64(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		hasError bool
	}{
		{"8000", 8000, false},
		{"0", 0, false},
		{"-1", -1, false},
		{"port", -1, true},
		{"", -1, true},
		{"80.80", -1, true},
	}

	for _, tt := range tests {
		got, err := utils.StringToInt64(tt.input)
		if tt.hasError {
			assert.Error(t, err, "input: %s", tt.input)
		} else {
			assert.NoError(t, err, "input: %s", tt.input)
			assert.Equal(t, tt.expected, got, "input: %s", tt.input)
		}
	}
}

func TestInt64ToString(t *testing.T) {
	assert.Equal(t, "8000", utils.Int64ToString(8000))
	assert.Equal(t, "0", utils.Int64ToString(0))
	assert.Equal(t, "-42", utils.Int64ToString(-42))
}
