// SPDX-License-Identifier: MPL-2.0

package suit

const (
	// DefaultCapSuffix is appended to the interface name to form the
	// capability type name (Decrypter → DecrypterCap).
	DefaultCapSuffix = "Cap"
	// DefaultParamName is the name given to the capability parameter
	// when the surrounding parameter list uses named parameters.
	DefaultParamName = "cap"
)

// Options tune the rewrite. The zero value means defaults.
type Options struct {
	// CapSuffix overrides DefaultCapSuffix.
	CapSuffix string
	// ParamName overrides DefaultParamName.
	ParamName string
}

// withDefaults returns o with zero fields replaced by defaults.
func (o Options) withDefaults() Options {
	if o.CapSuffix == "" {
		o.CapSuffix = DefaultCapSuffix
	}
	if o.ParamName == "" {
		o.ParamName = DefaultParamName
	}
	return o
}
