package emit

import "strings"

// descriptorParamWidths splits a method descriptor's parameter section
// into per-parameter slot widths (2 for J/D, 1 otherwise), the slot-count
// arithmetic every call site needs to compute its stack-depth delta.
func descriptorParamWidths(desc string) []int {
	i := strings.IndexByte(desc, '(')
	j := strings.IndexByte(desc, ')')
	if i < 0 || j < 0 || j <= i {
		return nil
	}
	body := desc[i+1 : j]
	var widths []int
	for k := 0; k < len(body); k++ {
		switch body[k] {
		case 'J', 'D':
			widths = append(widths, 2)
		case 'L':
			end := strings.IndexByte(body[k:], ';')
			if end >= 0 {
				k += end
			}
			widths = append(widths, 1)
		case '[':
			for k < len(body) && body[k] == '[' {
				k++
			}
			if k < len(body) && body[k] == 'L' {
				end := strings.IndexByte(body[k:], ';')
				if end >= 0 {
					k += end
				}
			}
			widths = append(widths, 1)
		default:
			widths = append(widths, 1)
		}
	}
	return widths
}

// descriptorReturnWidth reports the pushed slot width of a descriptor's
// return type: 0 for void, 2 for J/D, 1 otherwise.
func descriptorReturnWidth(desc string) int {
	j := strings.IndexByte(desc, ')')
	if j < 0 || j+1 >= len(desc) {
		return 0
	}
	switch desc[j+1:] {
	case "V":
		return 0
	case "J", "D":
		return 2
	default:
		return 1
	}
}

// invokeStackDelta computes an INVOKE*'s net operand-stack effect: the
// parameter slot widths (and the receiver slot for instance calls) are
// popped, the return slot width is pushed.
func invokeStackDelta(desc string, hasReceiver bool) int {
	delta := 0
	for _, w := range descriptorParamWidths(desc) {
		delta -= w
	}
	if hasReceiver {
		delta--
	}
	delta += descriptorReturnWidth(desc)
	return delta
}
