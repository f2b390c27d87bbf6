// Package ddms is an object model for DDMS metadata records. It parses,
// validates and serializes DDMS XML in any of the supported schema versions.
//
// Every operation takes the schema version explicitly:
//
//	reg := ddms.DefaultRegistry()
//	v, _ := reg.Resolve("4.1")
//	c, err := ddms.NewReader(v).ReadFile("record.xml")
//	if err != nil {
//	    var ve *ddms.ValidationError
//	    if errors.As(err, &ve) {
//	        fmt.Println(ve.Locator, ve.Message)
//	    }
//	}
//	fmt.Print(c.ToText())
//
// Element types are data. A *Type lists the fields of one element with their
// per-version names and limits; the generic Component parses, validates and
// renders any Type. Components are immutable; Builder is the mutable draft
// used to assemble one step by step.
package ddms
