package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/uzochukwuV/massabeam/internal/constants"
)

// gormKeys maps the untagged gorm.Model field names to snake_case.
var gormKeys = map[string]string{
	"ID":        "id",
	"CreatedAt": "created_at",
	"UpdatedAt": "updated_at",
	"DeletedAt": "deleted_at",
}

// normalizeKeys recursively renames gorm.Model keys so clients
// consistently receive snake_case fields.
func normalizeKeys(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeKeys(val)
		}
		for from, to := range gormKeys {
			if val, ok := vv[from]; ok {
				vv[to] = val
				delete(vv, from)
			}
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeKeys(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalSnake marshals v into JSON, decodes it into a generic value and
// normalizes gorm.Model keys. Numbers stay json.Number so 64-bit indices
// keep every digit.
func MarshalSnake(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return normalizeKeys(out), nil
}

// respond writes v with snake_case model keys.
func respond(c *gin.Context, status int, v interface{}) {
	out, err := MarshalSnake(v)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(status, out)
}

// parseID reads a positive numeric path parameter. On failure it writes a
// 400 with msg and returns false.
func parseID(c *gin.Context, param, msg string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: msg})
		return 0, false
	}
	return uint(v), true
}
