package queue

import (
	"fmt"
	"strings"
	"time"
)

func qualifiedStructName(v any) string {
	s := fmt.Sprintf("%T", v)
	return strings.TrimLeft(s, "*")
}

// linearBackoff delays the n-th retry by n*step.
func linearBackoff(step time.Duration, retry int8) time.Duration {
	if retry < 1 {
		retry = 1
	}
	return time.Duration(retry) * step
}
