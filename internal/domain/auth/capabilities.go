package auth

// Capability checks are pure functions over the caller's role and its
// relationship to the entity being acted on.

// CanManageJobs reports whether the role may create, edit and delete jobs,
// tasks and equipment.
func CanManageJobs(r Role) bool {
	return r == RoleAdmin || r == RoleSalesAgent
}

// CanManageUsers reports whether the role may administer user accounts.
func CanManageUsers(r Role) bool { return r == RoleAdmin }

// CanViewAnalytics reports whether the role may read job analytics.
func CanViewAnalytics(r Role) bool { return r == RoleAdmin }

// CanRunSweep reports whether the role may trigger the overdue sweep manually.
func CanRunSweep(r Role) bool { return r == RoleAdmin }

// CanViewDashboard reports whether the role has a technician dashboard.
func CanViewDashboard(r Role) bool { return r == RoleTechnician }

// IsAssignee reports whether p is the technician referenced by assigneeID.
func IsAssignee(p Principal, assigneeID *string) bool {
	if p.Role != RoleTechnician || p.UserID == "" || assigneeID == nil {
		return false
	}
	return *assigneeID == p.UserID
}

// CanTransitionJob reports whether p may change the status of a job assigned to assigneeID.
// Admins and sales agents are unrestricted; technicians must be the assignee.
func CanTransitionJob(p Principal, assigneeID *string) bool {
	if CanManageJobs(p.Role) {
		return true
	}
	return IsAssignee(p, assigneeID)
}

// CanTransitionTask reports whether p may change the status of a task whose
// parent job is assigned to jobAssigneeID. Only that technician may.
func CanTransitionTask(p Principal, jobAssigneeID *string) bool {
	return IsAssignee(p, jobAssigneeID)
}
