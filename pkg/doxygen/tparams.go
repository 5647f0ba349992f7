package doxygen

import "strings"

// Names returns the declared template parameter names in order.
//
// Parameters with an empty type are skipped. When declname is missing the
// name is taken from a two-word type such as "typename T"; any other shape
// is returned in malformed and contributes no name.
func (l *TemplateParamList) Names() (names, malformed []string) {
	if l == nil {
		return nil, nil
	}
	for _, param := range l.Params {
		typ := strings.TrimSpace(param.Type.String())
		if typ == "" {
			continue
		}
		if param.DeclName != nil {
			names = append(names, *param.DeclName)
			continue
		}
		fields := strings.Fields(typ)
		if len(fields) != 2 {
			malformed = append(malformed, typ)
			continue
		}
		names = append(names, fields[1])
	}
	return names, malformed
}
