package ctl

import (
	"context"
	"io"
	"sort"

	dsctl "github.com/dsctl/dsctl"
	"github.com/dsctl/dsctl/client"
	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/filter"
)

// defaultFeatureFields are the table columns shown when -f is not given.
const defaultFeatureFields = "id,status,stage.value,type,name"

// FeaturesListCommand lists the tenant's feature flags.
type FeaturesListCommand struct {
	Profile string
	Match   []string
	Limit   int
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewFeaturesListCommand(stdin io.Reader, stdout, stderr io.Writer) *FeaturesListCommand {
	return &FeaturesListCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *FeaturesListCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	exprs, err := parseMatches(cmd.Match)
	if err != nil {
		return err
	}
	docs, err := c.ListFeatures(ctx, cmd.Limit)
	if err != nil {
		return err
	}
	docs = filter.MatchAll(docs, exprs)
	sortByName(docs)
	return writeDocs(cmd.Stdout, docs, cmd.Output, defaultFeatureFields)
}

// FeaturesGetCommand shows one feature by id or unique name fragment.
type FeaturesGetCommand struct {
	Profile string
	Feature string
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewFeaturesGetCommand(stdin io.Reader, stdout, stderr io.Writer) *FeaturesGetCommand {
	return &FeaturesGetCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *FeaturesGetCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findFeature(ctx, c, cmd.Feature)
	if err != nil {
		return err
	}
	return writeDoc(cmd.Stdout, doc, cmd.Output)
}

// findFeature resolves name to a single feature: a direct id lookup
// first, then a unique match on the feature name.
func findFeature(ctx context.Context, c *client.Client, name string) (dotted.Document, error) {
	return c.FindOne(ctx, "features", name, nil, nameMatcher("name", name))
}

// FeaturesSetCommand flips one feature on or off. With Force the
// service also flips its dependency chain.
type FeaturesSetCommand struct {
	Profile string
	Feature string
	Enable  bool
	Force   bool
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewFeaturesSetCommand(stdin io.Reader, stdout, stderr io.Writer, enable bool) *FeaturesSetCommand {
	return &FeaturesSetCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr), Enable: enable}
}

func (cmd *FeaturesSetCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findFeature(ctx, c, cmd.Feature)
	if err != nil {
		return err
	}
	rsp, err := c.SetFeature(ctx, client.ID(doc), cmd.Enable, cmd.Force)
	if err != nil {
		return err
	}
	return writeDoc(cmd.Stdout, rsp, cmd.Output)
}

// FeaturesRelatedCommand lists a feature's dependents or dependencies.
type FeaturesRelatedCommand struct {
	Profile    string
	Feature    string
	Dependents bool
	Output     OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewFeaturesRelatedCommand(stdin io.Reader, stdout, stderr io.Writer, dependents bool) *FeaturesRelatedCommand {
	return &FeaturesRelatedCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr), Dependents: dependents}
}

func (cmd *FeaturesRelatedCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findFeature(ctx, c, cmd.Feature)
	if err != nil {
		return err
	}
	var docs []dotted.Document
	if cmd.Dependents {
		docs, err = c.FeatureDependents(ctx, client.ID(doc))
	} else {
		docs, err = c.FeatureDependencies(ctx, client.ID(doc))
	}
	if err != nil {
		return err
	}
	sortByName(docs)
	return writeDocs(cmd.Stdout, docs, cmd.Output, defaultFeatureFields)
}

// sortByName orders documents by their top-level name field so flag
// listings come out stable.
func sortByName(docs []dotted.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := docs[i]["name"].(string)
		b, _ := docs[j]["name"].(string)
		return a < b
	})
}
