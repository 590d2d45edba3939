package computeenv

import (
	"strings"
	"unicode"

	"github.com/thoreinstein/envdetect/internal/errors"
)

// Environment identifies a managed compute environment.
//
// The zero value is not a valid environment. Constants are declared in
// catalog order, which is also the order used to break ranking ties that
// specificity cannot resolve.
type Environment int

const (
	AwsEc2 Environment = iota + 1
	AwsEcs
	AwsLambda
	AwsKubernetes
	AwsNomad
	AzureContainerApps
	AzureContainerAppsJob
	AzureContainerInstance
	AzureKubernetes
	AzureVM
	AzureNomad
	GcpCloudRunGen1
	GcpCloudRunGen2
	GcpCloudRunJob
	GcpComputeEngine
	GcpKubernetes
	GcpNomad
	Kubernetes
	Nomad
	Qemu
)

// OpenTelemetry cloud.platform values.
const (
	PlatformAwsEc2                  = "aws_ec2"
	PlatformAwsEcs                  = "aws_ecs"
	PlatformAwsLambda               = "aws_lambda"
	PlatformAwsEks                  = "aws_eks"
	PlatformAzureContainerApps      = "azure_container_apps"
	PlatformAzureContainerInstances = "azure_container_instances"
	PlatformAzureAks                = "azure_aks"
	PlatformAzureVM                 = "azure_vm"
	PlatformGcpCloudRun             = "gcp_cloud_run"
	PlatformGcpComputeEngine        = "gcp_compute_engine"
	PlatformGcpKubernetesEngine     = "gcp_kubernetes_engine"
	PlatformKubernetes              = "kubernetes"
	PlatformNomad                   = "nomad"
	PlatformQemu                    = "qemu"
)

type environmentInfo struct {
	name     string
	display  string
	slug     string
	platform string
	provider CloudProvider
}

var environmentInfos = [...]environmentInfo{
	AwsEc2:                 {"AwsEc2", "AWS EC2", "aws-ec2", PlatformAwsEc2, AWS},
	AwsEcs:                 {"AwsEcs", "AWS ECS", "aws-ecs", PlatformAwsEcs, AWS},
	AwsLambda:              {"AwsLambda", "AWS Lambda", "aws-lambda", PlatformAwsLambda, AWS},
	AwsKubernetes:          {"AwsKubernetes", "Kubernetes on AWS", "aws-kubernetes", PlatformAwsEks, AWS},
	AwsNomad:               {"AwsNomad", "Nomad on AWS", "aws-nomad", PlatformNomad, AWS},
	AzureContainerApps:     {"AzureContainerApps", "Azure Container Apps", "azure-container-apps", PlatformAzureContainerApps, Azure},
	AzureContainerAppsJob:  {"AzureContainerAppsJob", "Azure Container Apps Job", "azure-container-apps-job", PlatformAzureContainerApps, Azure},
	AzureContainerInstance: {"AzureContainerInstance", "Azure Container Instance", "azure-container-instance", PlatformAzureContainerInstances, Azure},
	AzureKubernetes:        {"AzureKubernetes", "Kubernetes on Azure", "azure-kubernetes", PlatformAzureAks, Azure},
	AzureVM:                {"AzureVM", "Azure VM", "azure-vm", PlatformAzureVM, Azure},
	AzureNomad:             {"AzureNomad", "Nomad on Azure", "azure-nomad", PlatformNomad, Azure},
	GcpCloudRunGen1:        {"GcpCloudRunGen1", "Google Cloud Run (Gen1)", "gcp-cloud-run-gen1", PlatformGcpCloudRun, GoogleCloud},
	GcpCloudRunGen2:        {"GcpCloudRunGen2", "Google Cloud Run (Gen2)", "gcp-cloud-run-gen2", PlatformGcpCloudRun, GoogleCloud},
	GcpCloudRunJob:         {"GcpCloudRunJob", "Google Cloud Run (Job)", "gcp-cloud-run-job", PlatformGcpCloudRun, GoogleCloud},
	GcpComputeEngine:       {"GcpComputeEngine", "Google Compute Engine", "gcp-compute-engine", PlatformGcpComputeEngine, GoogleCloud},
	GcpKubernetes:          {"GcpKubernetes", "Kubernetes on Google Cloud", "gcp-kubernetes", PlatformGcpKubernetesEngine, GoogleCloud},
	GcpNomad:               {"GcpNomad", "Nomad on Google Cloud", "gcp-nomad", PlatformNomad, GoogleCloud},
	Kubernetes:             {"Kubernetes", "Kubernetes", "kubernetes", PlatformKubernetes, 0},
	Nomad:                  {"Nomad", "Nomad", "nomad", PlatformNomad, 0},
	Qemu:                   {"Qemu", "QEMU", "qemu", PlatformQemu, 0},
}

// All returns every environment in catalog order.
func All() []Environment {
	all := make([]Environment, 0, len(environmentInfos)-1)
	for e := AwsEc2; e <= Qemu; e++ {
		all = append(all, e)
	}
	return all
}

// Valid reports whether e is a catalog environment.
func (e Environment) Valid() bool {
	return e >= AwsEc2 && e <= Qemu
}

func (e Environment) info() environmentInfo {
	if !e.Valid() {
		return environmentInfo{name: "Unknown", display: "unknown", slug: "unknown"}
	}
	return environmentInfos[e]
}

// String returns the human-readable name, e.g. "Kubernetes on AWS".
func (e Environment) String() string {
	return e.info().display
}

// Name returns the identifier-style name, e.g. "AwsKubernetes".
func (e Environment) Name() string {
	return e.info().name
}

// Slug returns the command-line name, e.g. "aws-kubernetes".
func (e Environment) Slug() string {
	return e.info().slug
}

// PlatformCode returns the OpenTelemetry cloud.platform value.
// Several environments share a code; all Nomad variants report "nomad".
func (e Environment) PlatformCode() string {
	return e.info().platform
}

// CloudProvider returns the hosting cloud, if the environment implies one.
func (e Environment) CloudProvider() (CloudProvider, bool) {
	p := e.info().provider
	return p, p.Valid()
}

// MarshalText encodes the environment as its slug.
func (e Environment) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, errors.Wrapf(errors.ErrUnknownEnvironment, "environment %d", int(e))
	}
	return []byte(e.Slug()), nil
}

// UnmarshalText accepts anything ParseEnvironment does.
func (e *Environment) UnmarshalText(text []byte) error {
	parsed, err := ParseEnvironment(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseEnvironment resolves a slug ("gcp-cloud-run-gen2"), identifier
// ("GcpCloudRunGen2") or display name ("Google Cloud Run (Gen2)").
// Matching ignores case, spaces and punctuation.
func ParseEnvironment(s string) (Environment, error) {
	key := parseKey(s)
	if key != "" {
		for _, e := range All() {
			info := e.info()
			if key == parseKey(info.slug) || key == parseKey(info.name) || key == parseKey(info.display) {
				return e, nil
			}
		}
	}
	return 0, errors.Wrapf(errors.ErrUnknownEnvironment, "%q", s)
}

func parseKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
