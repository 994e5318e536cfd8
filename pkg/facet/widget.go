package facet

// Widget identifies how the presentation layer renders one facet.
type Widget string

const (
	SimpleLink   Widget = "simple_link"
	AlphabetList Widget = "alphabet_list"
	RangeInput   Widget = "range_input"

	// DefaultWidget renders a select/deselect link per entry.
	DefaultWidget = SimpleLink
)

var widgetTemplates = map[Widget]string{
	SimpleLink:   "search/partials/facet.html",
	AlphabetList: "search/partials/facet_abc.html",
	RangeInput:   "search/partials/facet_range.html",
}

func (w Widget) Known() bool {
	_, ok := widgetTemplates[w]
	return ok
}

// Template is the partial a template based renderer uses for the widget.
func (w Widget) Template() string {
	if t, ok := widgetTemplates[w]; ok {
		return t
	}
	return widgetTemplates[DefaultWidget]
}

// ResolveWidget never fails: unknown keys, unset and unknown widgets all
// resolve to DefaultWidget.
func (r *Registry) ResolveWidget(key string) Widget {
	if r == nil {
		return DefaultWidget
	}
	w, found := r.widgets[key]
	if !found || !w.Known() {
		return DefaultWidget
	}
	return w
}
