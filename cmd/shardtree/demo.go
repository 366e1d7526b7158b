package main

import (
	"fmt"
	"strings"

	"github.com/born-ml/shardtree/nn"
	"github.com/born-ml/shardtree/shard"
	"github.com/born-ml/shardtree/tensor"
)

// Demo architecture: a two-layer transformer encoder with tied input/output
// embeddings, small enough to print and large enough to exercise every kind
// of rule the sharder supports.

const (
	classTinyTransformer = "TinyTransformer"
	classTinyEmbeddings  = "TinyEmbeddings"
	classTinyLayer       = "TinyLayer"
	classTinyLMHead      = "TinyLMHead"
)

const (
	demoVocab        = 1024
	demoHidden       = 64
	demoHeads        = 4
	demoIntermediate = 256
	demoLayers       = 2
)

func buildDemoModel() *nn.Model {
	root := nn.NewNode(classTinyTransformer)

	embeddings := nn.NewNode(classTinyEmbeddings)
	embeddings.SetChild("word_embeddings", nn.NewEmbedding(demoVocab, demoHidden, 0))
	root.SetChild("embeddings", embeddings)

	encoder := nn.NewNode("Encoder")
	for i := 0; i < demoLayers; i++ {
		encoder.SetChild(fmt.Sprintf("layer_%d", i), buildDemoLayer())
	}
	root.SetChild("encoder", encoder)

	lmHead := nn.NewNode(classTinyLMHead)
	lmHead.SetChild("decoder", nn.NewLinear(demoHidden, demoVocab, false))
	root.SetChild("lm_head", lmHead)

	return nn.NewModel(classTinyTransformer, root, nn.Config{
		"vocab_size":          demoVocab,
		"hidden_size":         demoHidden,
		"num_attention_heads": demoHeads,
		"intermediate_size":   demoIntermediate,
	})
}

func buildDemoLayer() *nn.Node {
	self := nn.NewNode("SelfAttention")
	self.SetAttr("num_attention_heads", demoHeads)
	self.SetAttr("all_head_size", demoHidden)
	self.SetChild("query", nn.NewLinear(demoHidden, demoHidden, true))
	self.SetChild("key", nn.NewLinear(demoHidden, demoHidden, true))
	self.SetChild("value", nn.NewLinear(demoHidden, demoHidden, true))

	attnOutput := nn.NewNode("AttentionOutput")
	attnOutput.SetChild("dense", nn.NewLinear(demoHidden, demoHidden, true))

	attention := nn.NewNode("Attention")
	attention.SetChild("self", self)
	attention.SetChild("output", attnOutput)

	intermediate := nn.NewNode("Intermediate")
	intermediate.SetChild("dense", nn.NewLinear(demoHidden, demoIntermediate, true))

	output := nn.NewNode("Output")
	output.SetChild("dense", nn.NewLinear(demoIntermediate, demoHidden, true))

	layer := nn.NewNode(classTinyLayer)
	layer.SetChild("attention", attention)
	layer.SetChild("intermediate", intermediate)
	layer.SetChild("output", output)
	return layer
}

// demoPolicy shards the tiny transformer: attention heads and the feed
// forward block are split across ranks, and the LM head reuses the word
// embedding shard through the binding map.
type demoPolicy struct{}

func newDemoPolicy() *demoPolicy {
	return &demoPolicy{}
}

func (p *demoPolicy) InjectPolicy() (string, nn.Forward) {
	return classTinyTransformer, demoForward
}

// demoForward is the shard-aware behavior installed on the model: it embeds
// the input ids with the local embedding shard.
func demoForward(m *nn.Model, input *tensor.Tensor) (*tensor.Tensor, error) {
	embed, ok := m.Root().NodeAt("embeddings.word_embeddings")
	if !ok {
		return nil, fmt.Errorf("model has no word embeddings")
	}
	return embed.Apply(input)
}

func (p *demoPolicy) ArgumentPolicy(config nn.Config, worldSize int) []shard.LayerPolicy {
	hidden := config["hidden_size"]
	heads := config["num_attention_heads"]

	return []shard.LayerPolicy{
		{
			Origin: classTinyEmbeddings,
			ParamFuncs: []shard.ParamFunc{
				func() []shard.SliceInstruction {
					return []shard.SliceInstruction{{
						Weight:  "word_embeddings.weight",
						Kind:    shard.SliceCol,
						Replace: shard.ReplaceEmbedding,
					}}
				},
			},
			BindingLayers: []string{classTinyLMHead},
		},
		{
			Origin: classTinyLayer,
			Attrs: map[string]any{
				"attention.self.num_attention_heads": heads / worldSize,
				"attention.self.all_head_size":       hidden / worldSize,
			},
			ParamFuncs: []shard.ParamFunc{demoAttentionSlices, demoFeedForwardSlices},
		},
		{
			Origin: classTinyLMHead,
			ParamFuncs: []shard.ParamFunc{
				func() []shard.SliceInstruction {
					return []shard.SliceInstruction{{
						Weight:       "decoder.weight",
						Kind:         shard.SliceCol,
						Replace:      shard.ReplaceColLinear,
						GatherOutput: true,
					}}
				},
			},
		},
	}
}

func demoAttentionSlices() []shard.SliceInstruction {
	insts := make([]shard.SliceInstruction, 0, 4)
	for _, proj := range []string{"query", "key", "value"} {
		insts = append(insts, shard.SliceInstruction{
			Weight:  "attention.self." + proj + ".weight",
			Bias:    "attention.self." + proj + ".bias",
			Kind:    shard.SliceRow,
			Replace: shard.ReplaceRowLinear,
		})
	}
	insts = append(insts, shard.SliceInstruction{
		Weight:  "attention.output.dense.weight",
		Bias:    "attention.output.dense.bias",
		Kind:    shard.SliceCol,
		Replace: shard.ReplaceColLinear,
	})
	return insts
}

func demoFeedForwardSlices() []shard.SliceInstruction {
	return []shard.SliceInstruction{
		{
			Weight:  "intermediate.dense.weight",
			Bias:    "intermediate.dense.bias",
			Kind:    shard.SliceRow,
			Replace: shard.ReplaceRowLinear,
		},
		{
			Weight:  "output.dense.weight",
			Bias:    "output.dense.bias",
			Kind:    shard.SliceCol,
			Replace: shard.ReplaceColLinear,
		},
	}
}

func printTree(node *nn.Node, name string, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s: %s", indent, name, node.Class())
	for _, pname := range node.ParamNames() {
		p, _ := node.Param(pname)
		fmt.Printf("  %s%v", pname, p.Shape())
	}
	fmt.Println()
	for _, cname := range node.ChildNames() {
		child, _ := node.Child(cname)
		printTree(child, cname, depth+1)
	}
}
