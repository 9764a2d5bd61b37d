package parser

import (
	"testing"

	"pcrelint/internal/source"
	"pcrelint/internal/testkit"
)

func TestParseSpanInvariants(t *testing.T) {
	sources := map[string]string{
		"calls":    `<?php preg_match('/\d+/', $s, $m); preg_replace_callback('~x~', fn($m) => $m[0], $s);`,
		"classes":  "<?php\nnamespace App;\nfinal class A implements \\ArrayAccess {\n  public function offsetGet(mixed $k): mixed { return null; }\n}\n",
		"control":  "<?php if ($a) { echo 1; } elseif ($b) { echo 2; } else { foreach ($x as $k => $v) { $y[$k] = $v; } }",
		"include":  "<?php require_once __DIR__ . '/x.php'; include $_GET['p'];",
		"html":     "<p><?= $title ?></p><?php switch ($a) { case 1: break; default: return; }",
		"recovery": "<?php function ( { $a = ; }",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual(name+".php", []byte(src))
			sf := fs.Get(id)
			tree := ParseFile(sf, Options{})
			if err := testkit.CheckSpanInvariants(tree, sf); err != nil {
				t.Fatal(err)
			}
		})
	}
}
