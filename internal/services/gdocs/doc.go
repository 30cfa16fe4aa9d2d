// Package gdocs publishes blog drafts to Google Docs and logs them in a
// monthly tracking spreadsheet through the Docs and Sheets REST APIs.
package gdocs
