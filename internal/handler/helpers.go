package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
)

func intParam(c *gin.Context, name string) (int, error) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.WrapAs(err, appErrors.ErrValidation, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

// parseIDList reads "1,2, 3" into ints. Empty segments are ignored.
func parseIDList(raw string) ([]int, error) {
	ids := make([]int, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrValidation, fmt.Sprintf("invalid id %q", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func bindError(err error, message string) error {
	return appErrors.WrapAs(err, appErrors.ErrValidation, message)
}
