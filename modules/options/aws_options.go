package options

var AwsProfileOpt = Option{
	Name:        "profile",
	Short:       "p",
	Description: "AWS shared credentials profile",
	Required:    false,
	Type:        String,
	Value:       "",
}

var AwsRegionOpt = Option{
	Name:        "region",
	Description: "AWS region",
	Required:    true,
	Type:        String,
	Value:       "us-east-1",
}
