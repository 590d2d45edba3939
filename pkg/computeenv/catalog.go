package computeenv

import (
	"slices"
	"sync"

	"github.com/thoreinstein/envdetect/internal/detector"
	"github.com/thoreinstein/envdetect/internal/smbios"
)

// Hardware identity patterns. Values are lower-case substrings.
var (
	hardwareNone  = smbios.Pattern{}
	hardwareAWS   = smbios.Pattern{BIOSVendor: "amazon ec2", SystemVendor: "amazon ec2"}
	hardwareAzure = smbios.Pattern{ProductName: "virtual machine", SystemVendor: "microsoft corporation"}
	hardwareGCP   = smbios.Pattern{BIOSVendor: "google", ProductName: "google compute engine", SystemVendor: "google"}
	hardwareQemu  = smbios.Pattern{SystemVendor: "qemu"}
)

// Environment variables set by each platform's runtime.
var (
	varsAwsEcs = []string{
		"AWS_EXECUTION_ENV",
		"ECS_AGENT_URI",
		"ECS_CONTAINER_METADATA_URI",
		"ECS_CONTAINER_METADATA_URI_V4",
	}

	varsAwsLambda = []string{
		"_AWS_XRAY_DAEMON_ADDRESS",
		"_AWS_XRAY_DAEMON_PORT",
		"_HANDLER",
		"AWS_ACCESS_KEY_ID",
		"AWS_DEFAULT_REGION",
		"AWS_EXECUTION_ENV",
		"AWS_LAMBDA_FUNCTION_MEMORY_SIZE",
		"AWS_LAMBDA_FUNCTION_NAME",
		"AWS_LAMBDA_FUNCTION_VERSION",
		"AWS_LAMBDA_INITIALIZATION_TYPE",
		"AWS_LAMBDA_LOG_GROUP_NAME",
		"AWS_LAMBDA_LOG_STREAM_NAME",
		"AWS_LAMBDA_RUNTIME_API",
		"AWS_REGION",
		"AWS_SECRET_ACCESS_KEY",
		"AWS_SESSION_TOKEN",
		"AWS_XRAY_CONTEXT_MISSING",
		"AWS_XRAY_DAEMON_ADDRESS",
		"LAMBDA_RUNTIME_DIR",
		"LAMBDA_TASK_ROOT",
	}

	varsKubernetes = []string{
		"KUBERNETES_PORT",
		"KUBERNETES_PORT_443_TCP",
		"KUBERNETES_PORT_443_TCP_ADDR",
		"KUBERNETES_PORT_443_TCP_PORT",
		"KUBERNETES_PORT_443_TCP_PROTO",
		"KUBERNETES_SERVICE_HOST",
		"KUBERNETES_SERVICE_PORT",
		"KUBERNETES_SERVICE_PORT_HTTPS",
	}

	varsAzureContainerApps = concat([]string{
		"CONTAINER_APP_ENV_DNS_SUFFIX",
		"CONTAINER_APP_HOSTNAME",
		"CONTAINER_APP_NAME",
		"CONTAINER_APP_PORT",
		"CONTAINER_APP_REPLICA_NAME",
		"CONTAINER_APP_REVISION",
	}, varsKubernetes)

	varsAzureContainerAppsJob = concat([]string{
		"CONTAINER_APP_JOB_EXECUTION_NAME",
		"CONTAINER_APP_JOB_NAME",
		"CONTAINER_APP_REPLICA_NAME",
	}, varsKubernetes)

	varsAzureContainerInstance = []string{
		"Fabric_ApplicationName",
		"Fabric_CodePackageName",
		"Fabric_Id",
		"Fabric_NetworkingMode",
		"Fabric_NodeIPOrFQDN",
		"Fabric_ServiceDnsName",
		"Fabric_ServiceName",
	}

	varsGcpCloudRunService = []string{
		"K_REVISION",
		"K_SERVICE",
		"PORT",
		"K_CONFIGURATION",
		"CLOUD_RUN_TIMEOUT_SECONDS",
	}

	varsGcpCloudRunJob = []string{
		"CLOUD_RUN_EXECUTION",
		"CLOUD_RUN_JOB",
		"CLOUD_RUN_TASK_ATTEMPT",
		"CLOUD_RUN_TASK_COUNT",
		"CLOUD_RUN_TASK_INDEX",
	}

	varsNomad = []string{
		"NOMAD_ALLOC_DIR",
		"NOMAD_ALLOC_ID",
		"NOMAD_ALLOC_INDEX",
		"NOMAD_ALLOC_NAME",
		"NOMAD_CPU_CORES",
		"NOMAD_CPU_LIMIT",
		"NOMAD_DC",
		"NOMAD_GROUP_NAME",
		"NOMAD_JOB_ID",
		"NOMAD_JOB_NAME",
		"NOMAD_MEMORY_LIMIT",
		"NOMAD_NAMESPACE",
		"NOMAD_PARENT_CGROUP",
		"NOMAD_REGION",
		"NOMAD_SECRETS_DIR",
		"NOMAD_SHORT_ALLOC_ID",
		"NOMAD_TASK_DIR",
		"NOMAD_TASK_NAME",
	}
)

func concat(parts ...[]string) []string {
	return slices.Concat(parts...)
}

func newDetector(e Environment) detector.Detector {
	switch e {
	case AwsEc2:
		return detector.New(hardwareAWS)
	case AwsEcs:
		return detector.New(hardwareNone, varsAwsEcs...)
	case AwsLambda:
		return detector.New(hardwareNone, varsAwsLambda...)
	case AwsKubernetes:
		return detector.New(hardwareAWS, varsKubernetes...)
	case AwsNomad:
		return detector.New(hardwareAWS, varsNomad...)
	case AzureContainerApps:
		return detector.New(hardwareAzure, varsAzureContainerApps...)
	case AzureContainerAppsJob:
		return detector.New(hardwareAzure, varsAzureContainerAppsJob...)
	case AzureContainerInstance:
		return detector.New(hardwareNone, varsAzureContainerInstance...)
	case AzureKubernetes:
		return detector.New(hardwareAzure, varsKubernetes...)
	case AzureVM:
		return detector.New(hardwareAzure)
	case AzureNomad:
		return detector.New(hardwareAzure, varsNomad...)
	case GcpCloudRunGen1:
		return detector.New(hardwareNone, varsGcpCloudRunService...)
	case GcpCloudRunGen2:
		return detector.New(hardwareGCP, varsGcpCloudRunService...)
	case GcpCloudRunJob:
		return detector.New(hardwareGCP, varsGcpCloudRunJob...)
	case GcpComputeEngine:
		return detector.New(hardwareGCP)
	case GcpKubernetes:
		return detector.New(hardwareGCP, varsKubernetes...)
	case GcpNomad:
		return detector.New(hardwareGCP, varsNomad...)
	case Kubernetes:
		return detector.New(hardwareNone, varsKubernetes...)
	case Nomad:
		return detector.New(hardwareNone, varsNomad...)
	case Qemu:
		return detector.New(hardwareQemu)
	default:
		return detector.New(hardwareNone)
	}
}

type catalog struct {
	candidates []detector.Candidate[Environment]
	byEnv      map[Environment]detector.Detector
	envVars    []string
}

// loadCatalog builds the read-only catalog once. Detectors are immutable,
// so the result is shared by concurrent callers without locking.
var loadCatalog = sync.OnceValue(func() *catalog {
	c := &catalog{byEnv: make(map[Environment]detector.Detector)}
	seen := make(map[string]bool)

	for _, e := range All() {
		d := newDetector(e)
		c.candidates = append(c.candidates, detector.Candidate[Environment]{ID: e, Detector: d})
		c.byEnv[e] = d

		for _, name := range d.EnvVars() {
			if !seen[name] {
				seen[name] = true
				c.envVars = append(c.envVars, name)
			}
		}
	}

	return c
})

func (e Environment) detector() detector.Detector {
	return loadCatalog().byEnv[e]
}

// Signature describes what an environment expects to observe.
type Signature struct {
	BIOSVendor   string   `json:"bios_vendor,omitempty" yaml:"bios_vendor,omitempty" toml:"bios_vendor,omitempty"`
	ProductName  string   `json:"product_name,omitempty" yaml:"product_name,omitempty" toml:"product_name,omitempty"`
	SystemVendor string   `json:"system_vendor,omitempty" yaml:"system_vendor,omitempty" toml:"system_vendor,omitempty"`
	EnvVars      []string `json:"env_vars,omitempty" yaml:"env_vars,omitempty" toml:"env_vars,omitempty"`
}

// HardwareFields returns the number of constrained hardware fields.
func (s Signature) HardwareFields() int {
	return smbios.Pattern{BIOSVendor: s.BIOSVendor, ProductName: s.ProductName, SystemVendor: s.SystemVendor}.Fields()
}

// Signature returns the hardware substrings and environment variables the
// environment is detected by.
func (e Environment) Signature() Signature {
	d := e.detector()
	p := d.Pattern()
	return Signature{
		BIOSVendor:   p.BIOSVendor,
		ProductName:  p.ProductName,
		SystemVendor: p.SystemVendor,
		EnvVars:      d.EnvVars(),
	}
}

// Evidence returns the evidence of a host on which every signal of e is
// observed. Detecting against it ranks e first.
func (e Environment) Evidence() Evidence {
	return e.detector().Evidence()
}

// EnvVarNames returns every variable name any environment depends on,
// in catalog order without duplicates.
func EnvVarNames() []string {
	return slices.Clone(loadCatalog().envVars)
}
