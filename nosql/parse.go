package nosql

import (
	"fmt"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
	"gopkg.in/yaml.v3"
)

// ParseDocument 解析 JSON 或 YAML 格式的文档，保留键的原始顺序
// 对象解析为 D，数组解析为 A
func ParseDocument(data []byte) (D, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return D{}, nil
		}
		node = node.Content[0]
	}
	// 空输入
	if node.Kind == 0 {
		return D{}, nil
	}

	v, err := decodeNode(node)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return D{}, nil
	}
	d, ok := v.(D)
	if !ok {
		return nil, ferr.ErrInvalidDocument(v)
	}
	return d, nil
}

// ParseValue 解析任意 JSON/YAML 值，例如投影列表
func ParseValue(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return nil, nil
	}
	return decodeNode(node)
}

func decodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		d := make(D, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, err
			}
			v, err := decodeNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			d = append(d, E{Key: key, Value: v})
		}
		return d, nil
	case yaml.SequenceNode:
		a := make(A, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeNode(c)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		}
		return a, nil
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("nosql: unexpected node kind %d at line %d", n.Kind, n.Line)
}
