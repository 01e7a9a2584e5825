// Package messages holds the localized strings shown to catalog editors.
//
// Arabic is the default language; English is available through the
// locale.language setting or FILMDESK_LANG. Lookups go through an x/text
// message catalog so new languages only need another string table.
package messages
