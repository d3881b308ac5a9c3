package web

import (
	"html/template"
	"io"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Street Light Dashboard</title>
<script src="https://cdnjs.cloudflare.com/ajax/libs/Chart.js/3.9.1/chart.min.js"></script>
<style>
body { font-family: monospace; max-width: 1000px; margin: 2em auto; padding: 0 1em; background: #111; color: #eee; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #333; }
.on { color: #0f8; font-weight: bold; }
.off { color: #888; }
.fault { color: orange; }
.warn { color: #f44; font-weight: bold; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 12px; }
.card { border: 1px solid #333; border-radius: 6px; padding: 12px; }
button { font-family: monospace; padding: 6px 12px; margin-right: 6px; cursor: pointer; }
canvas { max-height: 240px; }
#login { max-width: 320px; }
input { font-family: monospace; padding: 6px; width: 100%; margin: 4px 0; box-sizing: border-box; }
.hidden { display: none; }
#status-line { color: #888; }
</style>
</head>
<body>
<h1>Street Light Dashboard</h1>

<div id="login">
<input id="username" placeholder="username">
<input id="password" type="password" placeholder="password">
<button onclick="login()">Log in</button>
<p id="login-msg" class="warn"></p>
</div>

<div id="main" class="hidden">
<h2>System</h2>
<table>
<tr><th>Total Voltage</th><td><span id="total-voltage">0</span> V</td></tr>
<tr><th>Total Current</th><td><span id="total-current">0</span> A</td></tr>
<tr><th>Total Lux</th><td><span id="total-lux">0</span></td></tr>
<tr><th>Status</th><td id="system-status">-</td></tr>
</table>

<h2>Lights</h2>
<div class="cards" id="cards"></div>

<h2>Trends</h2>
<canvas id="voltage-chart"></canvas>
<canvas id="current-chart"></canvas>

<p id="status-line">Last updated: -</p>
<button onclick="logout()">Log out</button>
</div>

<script>
var voltageChart, currentChart;

function makeChart(id, label, color) {
  return new Chart(document.getElementById(id).getContext("2d"), {
    type: "line",
    data: { labels: [], datasets: [{ label: label, data: [], borderColor: color, tension: 0.4 }] },
    options: { responsive: true }
  });
}

function card(light) {
  var cls = light.relay_state === "ON" ? "on" : "off";
  var lux = light.lux === -1 ? '<span class="fault">FAULT</span>' : light.lux;
  return '<div class="card">' +
    '<b>Light ' + light.id + '</b> <span class="' + cls + '">' + light.relay_state + '</span>' +
    '<table><tr><th>Voltage</th><td>' + light.voltage + ' V</td></tr>' +
    '<tr><th>Current</th><td>' + light.current + ' A</td></tr>' +
    '<tr><th>Lux</th><td>' + lux + '</td></tr></table>' +
    '<button onclick="control(' + light.id + ', \'on\')">ON</button>' +
    '<button onclick="control(' + light.id + ', \'off\')">OFF</button>' +
    '</div>';
}

async function fetchData() {
  try {
    var resp = await fetch("/api/data");
    if (resp.status === 401) { showLogin(); return; }
    var data = await resp.json();

    document.getElementById("cards").innerHTML = data.lights.map(card).join("");
    document.getElementById("total-voltage").textContent = data.stats.total_voltage;
    document.getElementById("total-current").textContent = data.stats.total_current;
    document.getElementById("total-lux").textContent = data.stats.total_lux;
    var st = document.getElementById("system-status");
    st.textContent = data.stats.system_status;
    st.className = data.stats.system_status === "No Fault" ? "on" : "warn";

    voltageChart.data.labels = data.charts.voltage.labels;
    voltageChart.data.datasets[0].data = data.charts.voltage.data;
    voltageChart.update();
    currentChart.data.labels = data.charts.current.labels;
    currentChart.data.datasets[0].data = data.charts.current.data;
    currentChart.update();

    document.getElementById("status-line").textContent = "Last updated: " + data.time;
  } catch (e) {
    document.getElementById("status-line").textContent = "Backend offline";
  }
}

async function control(id, action) {
  var resp = await fetch("/control", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({ light_id: id, action: action })
  });
  var data = await resp.json();
  if (!data.success) { alert("Control failed: " + (data.message || "unknown error")); }
  fetchData();
}

async function login() {
  var resp = await fetch("/login", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({
      username: document.getElementById("username").value,
      password: document.getElementById("password").value
    })
  });
  var data = await resp.json();
  if (data.success) { showMain(); fetchData(); }
  else { document.getElementById("login-msg").textContent = data.message || "login failed"; }
}

async function logout() {
  await fetch("/logout", { method: "POST" });
  showLogin();
}

function showMain() {
  document.getElementById("login").classList.add("hidden");
  document.getElementById("main").classList.remove("hidden");
}

function showLogin() {
  document.getElementById("main").classList.add("hidden");
  document.getElementById("login").classList.remove("hidden");
}

document.addEventListener("DOMContentLoaded", function() {
  voltageChart = makeChart("voltage-chart", "Voltage (V)", "#0cf");
  currentChart = makeChart("current-chart", "Current (A)", "#0f8");
  fetchData();
  setInterval(fetchData, 2000);
});
</script>
</body>
</html>
`

func renderDashboard(w io.Writer) {
	dashboardTmpl.Execute(w, nil)
}
