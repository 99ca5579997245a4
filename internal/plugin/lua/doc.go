// Package lua runs user-supplied Lua candidate filters.
//
// A filter script defines a global function
//
//	function filter(text, category, from, to)
//	  return not (category == "noun" and text:match("^%u"))
//	end
//
// that is called once per candidate. Returning false or nil drops the
// candidate; any other value keeps it. Scripts run in a sandbox with the
// base, table, string and math libraries only, and every call is bounded
// by a timeout.
package lua
