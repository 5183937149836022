package interact

import "graphlens/internal/domain"

// defaultLinkColor is the baseline stroke for links not tinted by a hover.
const defaultLinkColor = "#999"

// NodeState is the derived render state for one node.
type NodeState struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`
}

// LinkState is the derived render state for one link.
type LinkState struct {
	Index   int         `json:"index"`
	Source  string      `json:"source"`
	Target  string      `json:"target"`
	X1      float64     `json:"x1"`
	Y1      float64     `json:"y1"`
	X2      float64     `json:"x2"`
	Y2      float64     `json:"y2"`
	Width   float64     `json:"width"`
	Color   string      `json:"color"`
	Opacity float64     `json:"opacity"`
	Sign    domain.Sign `json:"sign"`
	Render  bool        `json:"render"`
}

// LabelState is the derived render state for one node label.
type LabelState struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`
}

// LegendEntry is one row of the group legend.
type LegendEntry struct {
	ID      string  `json:"id"`
	Color   string  `json:"color"`
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
}

// Projection is the full per-element visual state the renderer applies.
// It is recomputed synchronously on every interaction event; no component
// ever mutates rendered attributes directly.
type Projection struct {
	Nodes  []NodeState  `json:"nodes"`
	Links  []LinkState  `json:"links"`
	Labels []LabelState `json:"labels"`
}

// Project resolves the current model and interaction state into render
// state for every element. Pure with respect to the inputs: calling it
// twice without an intervening event yields identical output.
func (c *Controller) Project() Projection {
	switch {
	case c.hoverNode != "":
		return c.projectNodeHover()
	case c.hoverLink != noHoverLink:
		return c.projectLinkHover()
	default:
		return c.projectBaseline()
	}
}

// projectBaseline renders every link at the default opacity and base width
// and every visible node at the highlight tier.
func (c *Controller) projectBaseline() Projection {
	p := c.emptyProjection()

	for _, n := range c.graph.Nodes() {
		op := c.cfg.FadedOpacity
		if n.Visible {
			op = c.cfg.HighlightOpacity
		}
		p.Nodes = append(p.Nodes, c.nodeState(n, op))
		p.Labels = append(p.Labels, c.labelState(n, op))
	}
	for i, l := range c.graph.Links() {
		p.Links = append(p.Links, c.linkState(i, l, defaultLinkColor, c.cfg.DefaultLinkOpacity, 1))
	}
	return p
}

// projectNodeHover highlights the hovered node's one-hop neighborhood and
// fades everything else. Qualifying links take the hovered node's group
// color as stroke.
func (c *Controller) projectNodeHover() Projection {
	hovered, ok := c.graph.Node(c.hoverNode)
	if !ok {
		return c.projectBaseline()
	}
	connected, connectedLinks := c.ConnectedSet(c.hoverNode)
	tint := c.scales.GroupColor(hovered.Group)

	p := c.emptyProjection()
	for _, n := range c.graph.Nodes() {
		op := c.cfg.FadedOpacity
		if n.Visible && connected[n.ID] {
			op = c.cfg.HighlightOpacity
		}
		p.Nodes = append(p.Nodes, c.nodeState(n, op))
		p.Labels = append(p.Labels, c.labelState(n, op))
	}
	for i, l := range c.graph.Links() {
		if connectedLinks[i] {
			p.Links = append(p.Links, c.linkState(i, l, tint, c.cfg.HighlightOpacity, 1))
		} else {
			p.Links = append(p.Links, c.linkState(i, l, defaultLinkColor, c.cfg.FadedOpacity, 1))
		}
	}
	return p
}

// projectLinkHover boosts the hovered link to full opacity at 1.5x width
// and highlights both endpoints; everything else fades. A hidden endpoint
// still renders faded.
func (c *Controller) projectLinkHover() Projection {
	l, ok := c.graph.Link(c.hoverLink)
	if !ok {
		return c.projectBaseline()
	}

	p := c.emptyProjection()
	for _, n := range c.graph.Nodes() {
		op := c.cfg.FadedOpacity
		if n.Visible && l.Touches(n.ID) {
			op = c.cfg.HighlightOpacity
		}
		p.Nodes = append(p.Nodes, c.nodeState(n, op))
		p.Labels = append(p.Labels, c.labelState(n, op))
	}
	for i, link := range c.graph.Links() {
		if i == c.hoverLink {
			p.Links = append(p.Links, c.linkState(i, link, defaultLinkColor, 1, 1.5))
		} else {
			p.Links = append(p.Links, c.linkState(i, link, defaultLinkColor, c.cfg.FadedOpacity, 1))
		}
	}
	return p
}

// Legend returns one entry per node in model order, carrying the group
// color and the legend opacity tier for hidden entries.
func (c *Controller) Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(c.graph.Nodes()))
	for _, n := range c.graph.Nodes() {
		op := c.cfg.FadedOpacity
		if n.Visible {
			op = c.cfg.LegendOpacity
		}
		entries = append(entries, LegendEntry{
			ID:      n.ID,
			Color:   c.scales.GroupColor(n.Group),
			Visible: n.Visible,
			Opacity: op,
		})
	}
	return entries
}

func (c *Controller) emptyProjection() Projection {
	return Projection{
		Nodes:  make([]NodeState, 0, len(c.graph.Nodes())),
		Links:  make([]LinkState, 0, len(c.graph.Links())),
		Labels: make([]LabelState, 0, len(c.graph.Nodes())),
	}
}

func (c *Controller) nodeState(n *domain.Node, opacity float64) NodeState {
	return NodeState{
		ID:      n.ID,
		X:       n.X,
		Y:       n.Y,
		Radius:  c.scales.NodeRadius(n.Value),
		Color:   c.scales.GroupColor(n.Group),
		Opacity: opacity,
		Visible: n.Visible,
	}
}

func (c *Controller) labelState(n *domain.Node, opacity float64) LabelState {
	return LabelState{
		ID:      n.ID,
		Text:    n.Name,
		X:       n.X + c.scales.NodeRadius(n.Value) + c.cfg.LabelOffset,
		Y:       n.Y,
		Opacity: opacity,
	}
}

func (c *Controller) linkState(i int, l domain.Link, color string, opacity, widthBoost float64) LinkState {
	src, _ := c.graph.Node(l.Source)
	tgt, _ := c.graph.Node(l.Target)

	st := LinkState{
		Index:   i,
		Source:  l.Source,
		Target:  l.Target,
		Width:   c.scales.LinkWidth(l) * widthBoost,
		Color:   color,
		Opacity: opacity,
		Sign:    l.Sign(),
		Render:  c.LinkRenderable(l),
	}
	if src != nil {
		st.X1, st.Y1 = src.X, src.Y
	}
	if tgt != nil {
		st.X2, st.Y2 = tgt.X, tgt.Y
	}
	return st
}
