// Package talk defines the canonical talk record and the spreadsheet parser
// that produces it.
//
// One Record is created per valid spreadsheet row. Rows that fail validation
// are not errors for the batch: they are collected as Rejections with the
// offending field and talk identifier so operators can fix the export. The
// column layout varies between deployments and is injected via configuration
// rather than hard-coded.
package talk
