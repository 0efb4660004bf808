// Package codegen turns Go declarations carrying //nibel: directives into
// typed navigation entries.
//
// Generation runs in phases. The loader lowers marked declarations into
// Declaration values. Extract validates a Declaration and produces an
// EntryMetadata record. Render turns a record into formatted source, and
// the provider registry emits one discovery file per external destination.
// The Writer persists the result, leaving unchanged files untouched.
//
// Directives:
//
//	//nibel:composable
//	//nibel:entry type=composable|fragment [args=T] [result=T]
//	//nibel:external-entry type=composable|fragment destination=T [result=T]
//	//nibel:legacy-entry [args=T] [result=T]
//	//nibel:legacy-external-entry destination=T [result=T]
//
// Type references are written as Name for the declaring package or
// pkg.Name using the file's import names.
package codegen
