// Package git wraps the handful of git commands needed to publish
// documentation: a cleanliness check, remote URL lookup, and the
// init/add/commit/push sequence run inside the documentation directory.
package git
