package main

import (
	"fmt"
	"html/template"

	"github.com/ecofleet/ecofleet-go/pkg/inference"
)

// homePageData feeds the home page template.
type homePageData struct {
	Categorical  []string
	Numeric      []string
	Dropdowns    map[string][]string
	Submitted    map[string]string
	Result       *inference.Prediction
	FleetAverage *float64
	Chart        template.HTML
	UserTip      string
	Error        string
}

var homeTemplate = template.Must(template.New("home").Funcs(template.FuncMap{
	// printf does not dereference pointers for numeric verbs.
	"gkm": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.2f", *v)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <title>EcoFleet CO2 Predictor</title>
    <script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
    <style>
        body { font-family: sans-serif; background: #f4f7f4; margin: 0; color: #222; }
        .container { max-width: 1100px; margin: 20px auto; padding: 32px; background: #fff;
                     box-shadow: 0 4px 16px rgba(0,0,0,0.12); border-radius: 12px; }
        h1 { color: #14532d; text-align: center; }
        .content { display: flex; gap: 32px; }
        .form-section { flex: 1.2; }
        .graph-section { flex: 1; text-align: center; }
        form { display: grid; grid-template-columns: 1fr 1fr; gap: 18px; }
        label { font-weight: 600; display: block; margin-bottom: 6px; }
        input, select, textarea { width: 100%; padding: 10px; border-radius: 8px; border: 1px solid #aaa; }
        button { grid-column: span 2; padding: 14px; background: #14532d; color: #fff;
                 font-size: 17px; font-weight: bold; border: none; border-radius: 8px; cursor: pointer; }
        button:hover { background: #1e7d4d; }
        .result { margin-top: 20px; padding: 14px; background: #f0fdf4;
                  border-left: 5px solid #16a34a; border-radius: 6px; }
        .error { margin-top: 20px; padding: 14px; background: #fef2f2;
                 border-left: 5px solid #dc2626; border-radius: 6px; }
        .suggestions { margin-top: 20px; padding: 16px; background: #fff8e1;
                       border-left: 5px solid #f59e0b; border-radius: 6px; }
        .suggestions h3 { margin: 0 0 8px; color: #92400e; }
        .user-tip { margin-top: 16px; padding: 14px; background: #e0f7fa;
                    border-left: 5px solid #0288d1; border-radius: 6px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>EcoFleet CO2 Predictor</h1>
        <div class="content">
            <div class="form-section">
                <form method="post" action="/">
                    {{range $col := .Categorical}}
                    <div>
                        <label>{{$col}}:</label>
                        {{$opts := index $.Dropdowns $col}}
                        {{if $opts}}
                        <select name="{{$col}}" required>
                            {{range $opts}}<option value="{{.}}">{{.}}</option>{{end}}
                        </select>
                        {{else}}
                        <input type="text" name="{{$col}}" value="{{index $.Submitted $col}}" required>
                        {{end}}
                    </div>
                    {{end}}
                    {{range $col := .Numeric}}
                    <div>
                        <label>{{$col}}:</label>
                        <input type="number" step="any" name="{{$col}}" value="{{index $.Submitted $col}}" required>
                    </div>
                    {{end}}
                    <div style="grid-column: span 2;">
                        <label>Share your tip for a greener ride:</label>
                        <textarea name="user_suggestion" rows="3" maxlength="160"
                                  placeholder="Share your sustainability tip..."></textarea>
                    </div>
                    <button type="submit">Predict CO2</button>
                </form>

                {{if .Error}}
                <div class="error"><strong>Error:</strong> {{.Error}}</div>
                {{end}}

                {{if .Result}}
                <div class="result">
                    <p><strong>Predicted CO2:</strong> {{printf "%.2f" .Result.Value}} g/km</p>
                    {{if .FleetAverage}}
                    <p><strong>Fleet Average CO2:</strong> {{gkm .FleetAverage}} g/km</p>
                    {{end}}
                </div>
                {{if .Result.Suggestions}}
                <div class="suggestions">
                    <h3>Suggestions for a Greener Ride</h3>
                    <ul>
                        {{range .Result.Suggestions}}<li>{{.}}</li>{{end}}
                    </ul>
                </div>
                {{end}}
                {{end}}

                {{if .UserTip}}
                <div class="user-tip">
                    <h3>Your Submitted Eco Tip</h3>
                    <ul><li>{{.UserTip}}</li></ul>
                </div>
                {{end}}
            </div>

            {{if .Chart}}
            <div class="graph-section">
                <h3>Graphical Analysis</h3>
                {{.Chart}}
            </div>
            {{end}}
        </div>
    </div>
</body>
</html>
`))
