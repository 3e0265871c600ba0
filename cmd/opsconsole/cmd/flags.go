package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

type pageFlags struct {
	page int
	size int
}

func (p *pageFlags) register(c *cobra.Command) {
	c.Flags().IntVar(&p.page, "page", 1, "page number")
	c.Flags().IntVar(&p.size, "page-size", admin.DefaultPageSize, fmt.Sprintf("rows per page (max %d)", admin.MaxPageSize))
}

func (p *pageFlags) values() (int, int) {
	return admin.NormalizePage(p.page, p.size)
}

// optionValue validates a filter flag. Empty and "all" mean no filter.
func optionValue(flag, v string, opts []admin.Option) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == admin.AllFilter {
		return "", nil
	}
	if !admin.ValidOption(opts, v) {
		return "", fmt.Errorf("invalid --%s %q: use one of %s", flag, v, optionNames(opts))
	}
	return v, nil
}

func optionNames(opts []admin.Option) string {
	names := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Value != admin.AllFilter {
			names = append(names, o.Value)
		}
	}
	return strings.Join(names, ", ")
}

// reviewOutcome accepts approved or rejected.
func reviewOutcome(v string) (string, error) {
	switch v {
	case admin.StatusApproved, admin.StatusRejected:
		return v, nil
	}
	return "", fmt.Errorf("invalid --status %q: use approved or rejected", v)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive number", arg)
	}
	return id, nil
}
