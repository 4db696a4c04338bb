package naming

import (
	"fmt"
	"regexp"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

const (
	workspaceNameMaxLength = 63
	clusterNameMaxLength   = 40
	nodePoolNameMaxLength  = 24
	networkNameMaxLength   = 32
)

// Region shapes per provider. AWS and GCP regions follow documented patterns;
// Azure region names are compacted lowercase words (eastus, westeurope,
// japaneast) with an optional trailing digit.
var (
	awsRegionRegex   = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
	gcpRegionRegex   = regexp.MustCompile(`^[a-z]+-[a-z]+\d(-[a-z])?$`)
	azureRegionRegex = regexp.MustCompile(`^[a-z]+[a-z0-9]*$`)
)

func validateDNS1123Label(name string, maximum int, labelKind string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", labelKind)
	}
	if len(name) > maximum {
		return fmt.Errorf("%s name exceeds %d characters", labelKind, maximum)
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s name: %s", labelKind, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateWorkspaceName checks that name is a DNS label so workspace names can
// appear in event topics and provider tags unescaped.
func ValidateWorkspaceName(name string) error {
	return validateDNS1123Label(name, workspaceNameMaxLength, "workspace")
}

// ValidateClusterName checks that name is usable as a managed cluster name on
// every supported provider (DNS label shape is the common denominator).
func ValidateClusterName(name string) error {
	return validateDNS1123Label(name, clusterNameMaxLength, "cluster")
}

// ValidateNodePoolName checks that name is usable as a node pool / nodegroup
// name. AKS agent pool names are the tightest constraint (alphanumeric,
// lowercase-leading), which DNS label shape satisfies.
func ValidateNodePoolName(name string) error {
	return validateDNS1123Label(name, nodePoolNameMaxLength, "node pool")
}

// ValidateNetworkName checks names for VPCs, subnets and security groups.
func ValidateNetworkName(name string) error {
	return validateDNS1123Label(name, networkNameMaxLength, "network resource")
}

// ValidateRegion checks that region has the documented shape for the given
// provider ("aws", "gcp" or "azure"). It does not consult a region catalog,
// so newly launched regions pass as long as the naming scheme holds.
func ValidateRegion(provider, region string) error {
	if region == "" {
		return fmt.Errorf("region must not be empty")
	}
	var re *regexp.Regexp
	switch provider {
	case "aws":
		re = awsRegionRegex
	case "gcp":
		re = gcpRegionRegex
	case "azure":
		re = azureRegionRegex
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	if !re.MatchString(region) {
		return fmt.Errorf("region %q does not match the %s region format", region, provider)
	}
	return nil
}
