package analyze

import (
	"fmt"
	"go/ast"
	"reflect"
	"strings"

	"datagen/internal/annotation"
	"datagen/internal/model"
)

const (
	directivePrefix = "//datagen:"

	tagData  = "data"
	tagOrder = "order"
)

// directives reads "//datagen:key value" lines from a doc comment. The
// abstract directive marks the model type itself and is not part of the
// annotation.
func directives(doc *ast.CommentGroup) (model.Raw, bool) {
	if doc == nil {
		return nil, false
	}

	var (
		raw      model.Raw
		abstract bool
	)

	for _, c := range doc.List {
		line, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}

		key, value, _ := strings.Cut(strings.TrimSpace(line), " ")
		if key == annotation.KeyAbstract {
			abstract = true
			continue
		}

		if raw == nil {
			raw = make(model.Raw)
		}
		raw[key] = strings.TrimSpace(value)
	}

	return raw, abstract
}

// memberTags reads the data and order struct tags. The data tag is a comma
// separated list of key=value pairs; a bare key is a flag. A field with
// neither tag has no annotation.
func memberTags(tag reflect.StructTag) (model.Raw, error) {
	data, hasData := tag.Lookup(tagData)
	order, hasOrder := tag.Lookup(tagOrder)

	if !hasData && !hasOrder {
		return nil, nil
	}

	raw := make(model.Raw)

	for item := range strings.SplitSeq(data, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, value, _ := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("data tag %q: empty key", data)
		}

		if _, dup := raw[key]; dup {
			return nil, fmt.Errorf("data tag %q: duplicate key %s", data, key)
		}
		raw[key] = strings.TrimSpace(value)
	}

	if hasOrder {
		if _, dup := raw[annotation.KeyOrder]; dup {
			return nil, fmt.Errorf("order given in both data and order tags")
		}
		raw[annotation.KeyOrder] = strings.TrimSpace(order)
	}

	return raw, nil
}
