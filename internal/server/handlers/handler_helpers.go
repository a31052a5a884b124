package handlers

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

// render は HTML テンプレートをレンダリングし、レスポンスを書き込みます。
func (h *Handler) render(w http.ResponseWriter, status int, pageName string, title string, data any) {
	tmpl, ok := h.templateCache[pageName]
	if !ok {
		slog.Error("キャッシュ内にテンプレートが見つかりません", "page", pageName)
		http.Error(w, "システムエラーが発生しました（テンプレート未定義）", http.StatusInternalServerError)
		return
	}

	renderData := struct {
		Title string
		Data  any
	}{
		Title: title + titleSuffix,
		Data:  data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutName, renderData); err != nil {
		slog.Error("テンプレートのレンダリングに失敗しました", "page", pageName, "error", err)
		http.Error(w, "画面の表示中にエラーが発生しました", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

// panelView は1コマ分の表示データです。Number は1始まりなのだ。
type panelView struct {
	Number  int
	Caption string
	DataURI template.URL
}

// pageView はトップページの表示データです。
type pageView struct {
	Prompt   string
	Panels   []panelView
	Warnings []string
	Errors   []string
}

// toPanelViews は成功したパネルを PNG の data URI に変換します。
// 表示番号は失敗したビートを詰めた連番になります。
func toPanelViews(panels []*domain.Panel) ([]panelView, []error) {
	views := make([]panelView, 0, len(panels))
	var errs []error
	for _, p := range panels {
		data, err := p.PNG()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		views = append(views, panelView{
			Number:  len(views) + 1,
			Caption: p.Caption,
			DataURI: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data)),
		})
	}
	return views, errs
}
