package routes

import (
	"encoding/json"
	"net/http"

	"healthsync/healthsync/config"
	"healthsync/healthsync/controllers"
	"healthsync/healthsync/middlewares"
	"healthsync/healthsync/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

func ChatbotRoutes(ctrl *controllers.ChatbotController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /chatbot/symptom : run the triage pipeline
		gr.Post("/symptom", func(w http.ResponseWriter, r *http.Request) {
			var req types.SymptomRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			patientID := r.Context().Value(middlewares.UserIDKey).(int)
			resp, err := ctrl.AnalyzeSymptoms(r.Context(), patientID, req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		// GET /chatbot/chats : history grouped by room
		gr.Get("/chats", func(w http.ResponseWriter, r *http.Request) {
			patientID := r.Context().Value(middlewares.UserIDKey).(int)
			chats, err := ctrl.GetUserChats(r.Context(), patientID)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, chats)
		})
	})

	// Websocket variant: token comes in the first frame since browsers
	// cannot set Authorization headers on websocket upgrades.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token          string               `json:"token"`
			SymptomRequest types.SymptomRequest `json:"symptom_request"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		token, err := jwt.Parse(input.Token, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid claims"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid claims")
			return
		}
		userIDf, ok := claims["user_id"].(float64)
		if !ok {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid user_id"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid user_id")
			return
		}
		patientID := int(userIDf)

		ch, errCh := ctrl.AnalyzeSymptomsStream(ctx, patientID, input.SymptomRequest)
		go func() {
			if err := <-errCh; err != nil {
				conn.Write(ctx, websocket.MessageText, []byte(`{"error":"triage stream failed"}`))
				conn.Close(websocket.StatusInternalError, "stream error")
			}
		}()

		for chunk := range ch {
			if err := conn.Write(ctx, websocket.MessageText, []byte(chunk)); err != nil {
				return
			}
		}
		conn.Close(websocket.StatusNormalClosure, "")
	})

	return r
}
