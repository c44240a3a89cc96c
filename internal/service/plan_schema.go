package service

const planSchemaURL = "fitness_plan.json"

// planSchema constrains the seven-day plan requested from the model.
// supplement_plan may be omitted when nothing is recommended.
const planSchema = `{
  "type": "object",
  "required": ["nutrition_plan", "exercise_plan"],
  "properties": {
    "nutrition_plan": {
      "type": "object",
      "required": ["daily_plans"],
      "properties": {
        "daily_calories": {"type": "number", "minimum": 0},
        "macronutrients": {
          "type": "object",
          "properties": {
            "protein_g": {"type": "number", "minimum": 0},
            "carbs_g": {"type": "number", "minimum": 0},
            "fat_g": {"type": "number", "minimum": 0}
          }
        },
        "daily_plans": {
          "type": "array",
          "minItems": 1,
          "maxItems": 7,
          "items": {
            "type": "object",
            "required": ["day", "meals"],
            "properties": {
              "day": {"type": "string", "minLength": 1},
              "meals": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["meal", "food"],
                  "properties": {
                    "meal": {"type": "string"},
                    "food": {"type": "string"},
                    "calories": {"type": "number", "minimum": 0},
                    "alternatives": {"type": "string"}
                  }
                }
              }
            }
          }
        }
      }
    },
    "supplement_plan": {
      "type": "object",
      "properties": {
        "recommendations": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["supplement"],
            "properties": {
              "supplement": {"type": "string", "minLength": 1},
              "dosage": {"type": "string"},
              "reason": {"type": "string"}
            }
          }
        }
      }
    },
    "exercise_plan": {
      "type": "object",
      "required": ["weekly_schedule"],
      "properties": {
        "weekly_schedule": {
          "type": "array",
          "minItems": 1,
          "maxItems": 7,
          "items": {
            "type": "object",
            "required": ["day", "activity"],
            "properties": {
              "day": {"type": "string", "minLength": 1},
              "activity": {"type": "string"},
              "duration_minutes": {"type": "integer", "minimum": 0},
              "exercises": {"type": "array", "items": {"type": "string"}}
            }
          }
        },
        "progression_advice": {"type": "string"}
      }
    }
  }
}`
