package gcs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		object  string
		wantErr bool
	}{
		{"gs://statements/2024/03/a.xlsx", "statements", "2024/03/a.xlsx", false},
		{"gs://b/o", "b", "o", false},
		{"s3://b/o", "", "", true},
		{"gs://bucket-only", "", "", true},
		{"gs://bucket/", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.object, object)
		})
	}
}

func TestFilenameFromURI(t *testing.T) {
	assert.Equal(t, "x-cartola.xlsx", FilenameFromURI("gs://bucket/statements/2024/03/01/x-cartola.xlsx"))
	assert.Equal(t, "bucket", FilenameFromURI("gs://bucket"))
}

func TestObjectName(t *testing.T) {
	at := time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "statements/2024/03/05/abc-cartola_marzo.xlsx", ObjectName(at, "abc", "cartola marzo.xlsx"))
	assert.Equal(t, "statements/2024/03/05/abc-movs.csv", ObjectName(at, "abc", `C:\Users\me\movs.csv`))
	assert.Equal(t, "statements/2024/03/05/abc-statement", ObjectName(at, "abc", ""))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ContentType("a.XLSX"))
	assert.Equal(t, "application/vnd.ms-excel", ContentType("a.xls"))
	assert.Equal(t, "text/csv", ContentType("a.csv"))
	assert.Equal(t, "application/octet-stream", ContentType("a"))
}
