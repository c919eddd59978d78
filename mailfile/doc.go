// Package mailfile loads plain-text files containing multiple emails
// separated by "---" divider lines and splits them into discrete records.
package mailfile
