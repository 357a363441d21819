package services

import "testing"

// The grant matrix and workflow table are hand-maintained; these checks catch
// a typo before it silently seeds nothing.

func TestSeedGrantsReferenceKnownRolesAndPermissions(t *testing.T) {
	roles := make(map[string]bool, len(seedRoles))
	for _, r := range seedRoles {
		roles[r.Name] = true
	}
	perms := make(map[string]bool, len(seedPermissions))
	for _, p := range seedPermissions {
		perms[p.Code] = true
	}

	for roleName, codes := range seedGrants {
		if !roles[roleName] {
			t.Errorf("grant matrix references unknown role %q", roleName)
		}
		if len(codes) == 0 {
			t.Errorf("role %q has no grants", roleName)
		}
		seen := make(map[string]bool, len(codes))
		for _, code := range codes {
			if !perms[code] {
				t.Errorf("role %q granted unknown permission %q", roleName, code)
			}
			if seen[code] {
				t.Errorf("role %q granted %q twice", roleName, code)
			}
			seen[code] = true
		}
	}

	for _, r := range seedRoles {
		if _, ok := seedGrants[r.Name]; !ok {
			t.Errorf("role %q has no entry in the grant matrix", r.Name)
		}
	}
}

func TestSeedWorkflowEdgesReferenceKnownStates(t *testing.T) {
	states := map[string]bool{
		StateSubmitted:         true,
		StateUnderReview:       true,
		StateRevisionRequested: true,
		StateAccepted:          true,
		StateRejected:          true,
		StatePublished:         true,
	}

	seen := make(map[[2]string]bool, len(seedWorkflow))
	for _, edge := range seedWorkflow {
		if !states[edge.from] {
			t.Errorf("edge %s -> %s: unknown from state", edge.from, edge.to)
		}
		if !states[edge.to] {
			t.Errorf("edge %s -> %s: unknown to state", edge.from, edge.to)
		}
		if edge.label == "" {
			t.Errorf("edge %s -> %s: missing label", edge.from, edge.to)
		}
		key := [2]string{edge.from, edge.to}
		if seen[key] {
			t.Errorf("edge %s -> %s declared twice", edge.from, edge.to)
		}
		seen[key] = true
	}
}

func TestOperationCapabilitiesExistInCatalog(t *testing.T) {
	perms := make(map[string]bool, len(seedPermissions))
	for _, p := range seedPermissions {
		perms[p.Code] = true
	}

	for op, code := range requiredCapability {
		if !perms[code] {
			t.Errorf("operation %q requires %q, which the catalog never seeds", op, code)
		}
	}
	if !perms[DefaultTransitionPermission] {
		t.Errorf("default transition capability %q is not in the catalog", DefaultTransitionPermission)
	}
}
