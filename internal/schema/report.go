package schema

import "github.com/xela07ax/bizdash/internal/domain"

// ParseReport проверяет только конверт; содержимое config не разбирается.
func ParseReport(input any) (domain.Report, error) {
	return run(EntityReport, input, parseReport)
}

func parseReport(c *checker, path Path, v any) domain.Report {
	o, ok := c.object(path, v)
	if !ok {
		return domain.Report{}
	}
	return domain.Report{
		ID:     o.str("id"),
		Name:   o.str("name"),
		Config: o.opaque("config"),
	}
}
