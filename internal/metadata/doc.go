// Package metadata renders the final title and description for each talk by
// merging spreadsheet fields with CFP data, formatting speaker names, and
// applying the title template under the platform's length limit.
package metadata
