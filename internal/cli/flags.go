package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/vartui/internal/domain"
)

// rangeValue is a --range flag. Set validates the text; the range itself
// is resolved against the command clock when the command runs.
type rangeValue struct {
	raw string
}

var _ pflag.Value = (*rangeValue)(nil)

func (v *rangeValue) String() string { return v.raw }

func (v *rangeValue) Set(s string) error {
	if _, err := domain.ParseDateRange(s); err != nil {
		return err
	}
	v.raw = strings.TrimSpace(s)
	return nil
}

func (v *rangeValue) Type() string { return "range" }

// boolishValue accepts 1/0, true/false, yes/no and y/n.
type boolishValue struct {
	v bool
}

var _ pflag.Value = (*boolishValue)(nil)

func (b *boolishValue) String() string {
	if b.v {
		return "true"
	}
	return "false"
}

func (b *boolishValue) Set(s string) error {
	v, ok := parseBoolish(s)
	if !ok {
		return fmt.Errorf("invalid boolean %q (use true|false|yes|no|1|0)", s)
	}
	b.v = v
	return nil
}

func (b *boolishValue) Type() string { return "boolish" }

func parseBoolish(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}

func validatePositiveInt(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("--%s must be greater than 0", name)
	}
	return nil
}
