package constants

import "fmt"

const (
	KeyProjects       = "projects"
	KeyCompletedTasks = "completedTasks"
	KeySettings       = "settings"
	KeyActiveProject  = "activeProjectId"
	KeyAccounts       = "accounts"
	KeySession        = "currentSession"

	// KeyUnsynced is true while local changes have not reached the sync API.
	KeyUnsynced = "unsynced"
)

// UserKeys lists the per-account keys.
var UserKeys = []string{KeyProjects, KeyCompletedTasks, KeySettings, KeyActiveProject, KeyUnsynced}

// UserKey scopes a storage key to a single account.
func UserKey(accountID, name string) string {
	return fmt.Sprintf("user:%s:%s", accountID, name)
}
