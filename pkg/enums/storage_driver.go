package enums

import "fmt"

// StorageDriver selects the key-value backend for cart and counter persistence.
type StorageDriver string

const (
	StorageDriverSQLite   StorageDriver = "sqlite"
	StorageDriverPostgres StorageDriver = "postgres"
	StorageDriverRedis    StorageDriver = "redis"
	StorageDriverMemory   StorageDriver = "memory"
)

var validStorageDrivers = []StorageDriver{
	StorageDriverSQLite,
	StorageDriverPostgres,
	StorageDriverRedis,
	StorageDriverMemory,
}

// String implements fmt.Stringer.
func (d StorageDriver) String() string {
	return string(d)
}

// IsValid reports whether the value is a known StorageDriver.
func (d StorageDriver) IsValid() bool {
	for _, candidate := range validStorageDrivers {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseStorageDriver converts raw input into a StorageDriver.
func ParseStorageDriver(value string) (StorageDriver, error) {
	for _, candidate := range validStorageDrivers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage driver %q", value)
}
