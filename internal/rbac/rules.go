package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"learner": {
		"placement:view",
		"placement:attempt",
		"exercise:view",
		"exercise:submit",
		"result:view-own",
		"progress:view",
		"user:change_password",
	},
	"instructor": {
		"placement:view",
		"placement:manage",
		"placement:unlock",
		"exercise:view",
		"exercise:create",
		"result:view-all",
		"progress:view",
		"users:bulk_upsert",
		"users:list",
	},
	"admin": {
		"*", // everything
	},
}
