package sema

import "strings"

// builtinReturns lists the declared return types of frequently used PHP
// functions. Keys are lowercase.
var builtinReturns = map[string][]string{
	// strings
	"strlen": {"int"}, "mb_strlen": {"int"}, "strpos": {"int", "bool"}, "stripos": {"int", "bool"},
	"strrpos": {"int", "bool"}, "mb_strpos": {"int", "bool"}, "substr": {"string"}, "mb_substr": {"string"},
	"str_replace": {"string", "array"}, "str_ireplace": {"string", "array"}, "str_repeat": {"string"},
	"str_pad": {"string"}, "strtolower": {"string"}, "strtoupper": {"string"}, "mb_strtolower": {"string"},
	"mb_strtoupper": {"string"}, "ucfirst": {"string"}, "lcfirst": {"string"}, "ucwords": {"string"},
	"trim": {"string"}, "ltrim": {"string"}, "rtrim": {"string"}, "sprintf": {"string"},
	"vsprintf": {"string"}, "implode": {"string"}, "join": {"string"}, "explode": {"array"},
	"str_split": {"array"}, "mb_str_split": {"array"}, "nl2br": {"string"}, "htmlspecialchars": {"string"},
	"html_entity_decode": {"string"}, "strip_tags": {"string"}, "addslashes": {"string"},
	"stripslashes": {"string"}, "md5": {"string"}, "sha1": {"string"}, "hash": {"string"},
	"base64_encode": {"string"}, "base64_decode": {"string", "bool"}, "urlencode": {"string"},
	"rawurlencode": {"string"}, "urldecode": {"string"}, "http_build_query": {"string"},
	"number_format": {"string"}, "str_contains": {"bool"}, "str_starts_with": {"bool"},
	"str_ends_with": {"bool"}, "strcmp": {"int"}, "strcasecmp": {"int"}, "strstr": {"string", "bool"},
	"strrev": {"string"}, "wordwrap": {"string"}, "chr": {"string"}, "ord": {"int"},
	"uniqid": {"string"}, "bin2hex": {"string"}, "dechex": {"string"}, "hexdec": {"int", "float"},
	"json_encode": {"string", "bool"}, "serialize": {"string"}, "var_export": {"string", "null"},
	"print_r": {"string", "bool"}, "gettype": {"string"}, "get_class": {"string"},
	"spl_object_hash": {"string"}, "date": {"string"}, "gmdate": {"string"},
	"file_get_contents": {"string", "bool"}, "realpath": {"string", "bool"}, "basename": {"string"},
	"dirname": {"string"}, "getcwd": {"string", "bool"}, "sys_get_temp_dir": {"string"},
	"tempnam": {"string", "bool"}, "php_uname": {"string"}, "phpversion": {"string", "bool"},

	// regex
	"preg_match": {"int", "bool"}, "preg_match_all": {"int", "bool"}, "preg_quote": {"string"},
	"preg_split": {"array", "bool"}, "preg_grep": {"array", "bool"}, "preg_last_error": {"int"},
	"preg_last_error_msg": {"string"},

	// arrays
	"count": {"int"}, "sizeof": {"int"}, "array_keys": {"array"}, "array_values": {"array"},
	"array_merge": {"array"}, "array_merge_recursive": {"array"}, "array_combine": {"array"},
	"array_filter": {"array"}, "array_map": {"array"}, "array_slice": {"array"},
	"array_splice": {"array"}, "array_unique": {"array"}, "array_reverse": {"array"},
	"array_flip": {"array"}, "array_fill": {"array"}, "array_fill_keys": {"array"},
	"array_diff": {"array"}, "array_diff_key": {"array"}, "array_intersect": {"array"},
	"array_intersect_key": {"array"}, "array_column": {"array"}, "array_chunk": {"array"},
	"array_pad": {"array"}, "array_replace": {"array"}, "array_count_values": {"array"},
	"array_key_exists": {"bool"}, "in_array": {"bool"}, "array_search": {"int", "string", "bool"},
	"array_sum": {"int", "float"}, "array_product": {"int", "float"}, "range": {"array"},
	"compact": {"array"}, "func_get_args": {"array"}, "get_object_vars": {"array"},
	"iterator_to_array": {"array"}, "str_getcsv": {"array"}, "array_is_list": {"bool"},
	"array_key_first": {"int", "string", "null"}, "array_key_last": {"int", "string", "null"},
	"scandir": {"array", "bool"}, "glob": {"array", "bool"}, "file": {"array", "bool"},
	"parse_url": {"mixed"}, "pathinfo": {"array", "string"}, "getenv": {"string", "bool", "array"},

	// numbers
	"intval": {"int"}, "floatval": {"float"}, "boolval": {"bool"}, "strval": {"string"},
	"abs": {"int", "float"}, "floor": {"float"}, "ceil": {"float"}, "round": {"float"},
	"max": {"mixed"}, "min": {"mixed"}, "rand": {"int"}, "mt_rand": {"int"}, "random_int": {"int"},
	"time": {"int"}, "microtime": {"string", "float"}, "hrtime": {"array", "int", "float", "bool"},
	"strtotime": {"int", "bool"}, "mktime": {"int", "bool"}, "filesize": {"int", "bool"},
	"filemtime": {"int", "bool"}, "memory_get_usage": {"int"},

	// predicates
	"is_array": {"bool"}, "is_string": {"bool"}, "is_int": {"bool"}, "is_numeric": {"bool"},
	"is_null": {"bool"}, "is_object": {"bool"}, "is_callable": {"bool"}, "is_bool": {"bool"},
	"is_float": {"bool"}, "file_exists": {"bool"},
	"is_file": {"bool"}, "is_dir": {"bool"}, "defined": {"bool"}, "function_exists": {"bool"},
	"class_exists": {"bool"}, "method_exists": {"bool"}, "property_exists": {"bool"},

	// objects
	"json_decode": {"mixed"}, "unserialize": {"mixed"}, "array_pop": {"mixed"},
	"array_shift": {"mixed"}, "current": {"mixed"}, "reset": {"mixed"}, "end": {"mixed"},
	"fopen": {"resource", "bool"}, "curl_init": {"\\CurlHandle", "bool"},
	"dom_import_simplexml": {"\\DOMElement"}, "simplexml_load_string": {"\\SimpleXMLElement", "bool"},
}

// builtinReturnType returns the declared return types of a PHP function.
func builtinReturnType(name string) ([]string, bool) {
	types, ok := builtinReturns[strings.ToLower(name)]
	return types, ok
}
