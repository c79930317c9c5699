package output

import (
	"encoding/json"

	"github.com/ukaji3/finreport-go/pkg/finreport/models"
)

// ToJSON serializes the records of rs as a JSON array.
func ToJSON(rs *models.ResultSet, pretty bool) ([]byte, error) {
	if rs == nil {
		rs = &models.ResultSet{}
	}
	if pretty {
		return json.MarshalIndent(rs, "", "  ")
	}
	return json.Marshal(rs)
}
