package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ukaji3/finreport-go/pkg/finreport/models"
)

// Key returns the store key for a worksheet of a file. Worksheet names are
// matched case-insensitively, so the name is folded to lower case.
func Key(worksheet, path string) string {
	return "ExcelData_" + strings.ToLower(worksheet) + "_" + path
}

// Fingerprint hashes the ordered (key, row) pairs of mappings. Two mapping
// lists with the same count but different names or rows hash differently.
func Fingerprint(mappings []models.FieldMapping) uint64 {
	d := xxhash.New()
	var buf []byte
	for _, m := range mappings {
		buf = buf[:0]
		buf = append(buf, m.Key()...)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, int64(m.RowNumber), 10)
		buf = append(buf, 0)
		d.Write(buf)
	}
	return d.Sum64()
}
