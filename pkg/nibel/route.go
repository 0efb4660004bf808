package nibel

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// RouteSeparator joins a qualified name and an argument hash in route names.
const RouteSeparator = "/"

// BuildRouteName returns the route name of a composable entry: the wrapper's
// qualified name, followed by a hash of the arguments when there are any.
// The result depends only on its inputs.
func BuildRouteName(qualifiedName string, args any) string {
	if args == nil {
		return qualifiedName
	}
	return qualifiedName + RouteSeparator + argsHash(args)
}

// argsHash covers every field of args, unexported ones included, so two
// payloads hash alike only when they print alike.
func argsHash(args any) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%T:%#v", args, args)
	return strconv.FormatUint(h.Sum64(), 16)
}
