package domain_test

import (
	"testing"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, domain.CategoryCSV, domain.Classify("reports/2022/sales.csv"))
	assert.Equal(t, domain.CategoryJSON, domain.Classify("config.json"))
	assert.Equal(t, domain.CategoryPlainText, domain.Classify("notes.txt"))
}

func TestClassifyUnknown(t *testing.T) {
	assert.Equal(t, domain.CategoryUnknown, domain.Classify("archive.tar.gz"))
	assert.Equal(t, domain.CategoryUnknown, domain.Classify("file"))
	assert.Equal(t, domain.CategoryUnknown, domain.Classify(""))
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	assert.Equal(t, domain.CategoryUnknown, domain.Classify("DATA.CSV"))
	assert.Equal(t, domain.CategoryUnknown, domain.Classify("data.Json"))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "csv", domain.CategoryCSV.String())
	assert.Equal(t, "json", domain.CategoryJSON.String())
	assert.Equal(t, "text", domain.CategoryPlainText.String())
	assert.Equal(t, "unknown", domain.CategoryUnknown.String())
}
