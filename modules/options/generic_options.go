package options

var OutputOpt = Option{
	Name:        "output",
	Short:       "o",
	Description: "output directory",
	Required:    false,
	Type:        String,
	Value:       "output",
}

var FilterOpt = Option{
	Name:        "filter",
	Description: "jq expression evaluated against each finding; non-matching findings are dropped",
	Required:    false,
	Type:        String,
	Value:       "",
}

var WorkersOpt = Option{
	Name:        "workers",
	Short:       "w",
	Description: "maximum concurrent API fetches",
	Required:    false,
	Type:        Int,
	Value:       "8",
}
