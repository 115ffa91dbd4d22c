// Package prettyprint formats values for debug output.
package prettyprint

import (
	"encoding/json"
	"fmt"
)

// AsString returns in as indented JSON, if it can not be marshaled the
// %+v representation is returned.
func AsString(in any) string {
	res, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", in)
	}

	return string(res)
}
