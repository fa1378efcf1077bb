package extract

// Rules names the well-known declarations the extraction stage looks for.
type Rules struct {
	// RuntimePackage is the import path of the mapping runtime.
	RuntimePackage string
	// RuntimeName is the runtime's package name, used in diagnostics.
	RuntimeName string
	// Marker is the interface the receiver type must implement.
	Marker string
	// ConfigType is the type whose pointer the registration method takes.
	ConfigType string
	// RegisterMethod is the required method name.
	RegisterMethod string
	// RegisterCall is the generic function declaring one mapping.
	RegisterCall string
}

// Default well-known names.
const (
	DefaultRuntimePackage = "github.com/mapext/mapster"
	DefaultRuntimeName    = "mapster"
	DefaultMarker         = "Registerer"
	DefaultConfigType     = "TypeAdapterConfig"
	DefaultRegisterMethod = "Register"
	DefaultRegisterCall   = "NewConfig"
)

// DefaultRules returns the rules for the default runtime.
func DefaultRules() Rules {
	return Rules{
		RuntimePackage: DefaultRuntimePackage,
		RuntimeName:    DefaultRuntimeName,
		Marker:         DefaultMarker,
		ConfigType:     DefaultConfigType,
		RegisterMethod: DefaultRegisterMethod,
		RegisterCall:   DefaultRegisterCall,
	}
}
