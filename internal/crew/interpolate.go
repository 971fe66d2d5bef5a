package crew

import (
	"fmt"
	"strconv"
	"strings"
)

// Interpolate replaces every {key} in the template with the formatted
// input value. Unknown placeholders are left untouched so a typo in a
// task description stays visible in the prompt.
func Interpolate(template string, inputs map[string]any) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		open := strings.IndexByte(template[i:], '{')
		if open < 0 {
			b.WriteString(template[i:])
			break
		}
		open += i
		end := strings.IndexByte(template[open:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}
		end += open

		key := template[open+1 : end]
		val, ok := inputs[key]
		if !ok {
			b.WriteString(template[i : end+1])
			i = end + 1
			continue
		}

		b.WriteString(template[i:open])
		b.WriteString(formatValue(val))
		i = end + 1
	}

	return b.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, "\n")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
