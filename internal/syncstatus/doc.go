// Package syncstatus reports how a local git repository relates to its remote.
//
// Service runs a fixed sequence of git queries (remotes, current branch, recent
// history, working tree, fetch, branch summary, unpushed and unpulled commits)
// and prints each result under a numbered heading. Failed queries degrade to a
// default line; only a missing .git directory stops the report early.
package syncstatus
