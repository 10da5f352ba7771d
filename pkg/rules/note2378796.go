package rules

// Note2378796 is the rule table for SAP Note 2378796: commodity code
// fields on MARC are no longer maintained there and must be read
// through /SAPSLL/CL_MM_CLS_SERVICE instead of direct SELECTs.
func Note2378796() *Ruleset {
	return NewRuleset(
		"SAPNote2378796",
		"2378796",
		"Direct reads of commodity code fields from MARC.",
		[]string{"MARC"},
		[]*Field{
			{
				Name:        "STAWN",
				Remediation: "Create instance of /SAPSLL/CL_MM_CLS_SERVICE and call ->GET_COMMODITY_CODE_CLS",
			},
			{
				Name:        "EXPME",
				Remediation: "Create instance of /SAPSLL/CL_MM_CLS_SERVICE and call ->GET_COMMODITY_CODE_DETAILS",
			},
		},
	)
}
