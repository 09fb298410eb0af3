package tubular

import (
	"testing"

	"fieldtrax/testutil"
)

func TestTubularDependsOnlyOnQuantity(t *testing.T) {
	forbidden := func(path string) bool {
		return testutil.ModuleImportForbidden(path) && !testutil.PackagesForbidden("pkg/quantity")(path)
	}
	testutil.AssertNoDirectImports(t, ".", forbidden, "tubular may only import pkg/quantity from this module")
}
